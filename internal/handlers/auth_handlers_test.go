package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vibora/poster-shop/internal/hash"
	middlewareauth "github.com/vibora/poster-shop/internal/middleware/auth"
	"github.com/vibora/poster-shop/internal/models"
	"github.com/vibora/poster-shop/internal/mykafka"
	"github.com/vibora/poster-shop/internal/token"
)

var testSecret = []byte("test_secret")

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Poster{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var body *bytes.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// asUser simulates the access-control gate having already run.
func asUser(c echo.Context, user models.User) {
	c.Set(middlewareauth.ContextUserID, user.ID)
	c.Set(middlewareauth.ContextEmail, user.Email)
	c.Set(middlewareauth.ContextRole, user.Role)
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestSignup(t *testing.T) {
	db := InitTestDB(t)
	h := AuthHandler{DB: db, Tokens: token.NewService(testSecret), Producer: mykafka.NewProducer(nil)}

	payload := map[string]string{
		"name":     "Ana",
		"email":    "ana@x.com",
		"password": "p@ss1",
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", payload), rec)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "User created", resp["msg"])
	require.NotEmpty(t, resp["userId"])
	require.NotContains(t, rec.Body.String(), "p@ss1", "plaintext password must never appear in a response")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "ana@x.com").First(&stored).Error)
	require.Equal(t, models.RoleStandard, stored.Role)
	require.NotEqual(t, "p@ss1", stored.PasswordHash)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "p@ss1"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := InitTestDB(t)
	h := AuthHandler{DB: db, Tokens: token.NewService(testSecret), Producer: mykafka.NewProducer(nil)}
	createUser(t, db, "Ana", "ana@x.com", models.RoleStandard)

	payload := map[string]string{
		"name":     "Imposter",
		"email":    "ana@x.com",
		"password": "different",
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", payload), rec)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "user already exists", he.Message)
}

func TestSignupMissingFields(t *testing.T) {
	db := InitTestDB(t)
	h := AuthHandler{DB: db, Tokens: token.NewService(testSecret), Producer: mykafka.NewProducer(nil)}

	for _, payload := range []map[string]string{
		{"email": "ana@x.com", "password": "p@ss1"},
		{"name": "Ana", "password": "p@ss1"},
		{"name": "Ana", "email": "ana@x.com"},
	} {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", payload), rec)

		err := h.Signup(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError for payload %v", payload)
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestLogin(t *testing.T) {
	db := InitTestDB(t)
	tokens := token.NewService(testSecret)
	h := AuthHandler{DB: db, Tokens: tokens, Producer: mykafka.NewProducer(nil)}
	user := createUser(t, db, "Ana", "ana@x.com", models.RoleStandard)

	payload := map[string]string{
		"email":    "ana@x.com",
		"password": "password",
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", payload), rec)

	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, "ana@x.com", resp.User.Email)
	require.NotContains(t, rec.Body.String(), user.PasswordHash)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "ana@x.com", claims.Email)
	require.Equal(t, models.RoleStandard, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	db := InitTestDB(t)
	h := AuthHandler{DB: db, Tokens: token.NewService(testSecret), Producer: mykafka.NewProducer(nil)}
	createUser(t, db, "Ana", "ana@x.com", models.RoleStandard)

	payload := map[string]string{
		"email":    "ana@x.com",
		"password": "wrong",
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", payload), rec)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "invalid credentials", he.Message)
	require.NotContains(t, rec.Body.String(), "token")
}

func TestLoginUnknownEmail(t *testing.T) {
	db := InitTestDB(t)
	h := AuthHandler{DB: db, Tokens: token.NewService(testSecret), Producer: mykafka.NewProducer(nil)}

	payload := map[string]string{
		"email":    "nobody@x.com",
		"password": "password",
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", payload), rec)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "user does not exist", he.Message)
}
