package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/vibora/poster-shop/internal/models"
)

var testSecret = []byte("test_secret")

func TestIssueAndVerify(t *testing.T) {
	svc := NewService(testSecret)

	user := models.User{
		ID:    42,
		Name:  "Ana",
		Email: "ana@x.com",
		Role:  models.RoleStandard,
	}

	raw, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "ana@x.com", claims.Email)
	require.Equal(t, models.RoleStandard, claims.Role)
	require.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewService(testSecret)

	raw, err := svc.Issue(models.User{ID: 1, Email: "a@x.com", Role: models.RoleStandard})
	require.NoError(t, err)

	for i := 0; i < len(raw); i++ {
		mutated := []byte(raw)
		if mutated[i] >= 'A' && mutated[i] <= 'Z' {
			mutated[i] = 'z'
		} else {
			mutated[i] = 'A'
		}
		_, err := svc.Verify(string(mutated))
		require.ErrorIs(t, err, ErrInvalidToken, "mutation at position %d must fail verification", i)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, err := NewService([]byte("other_secret")).Issue(models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = NewService(testSecret).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	exp := time.Now().Add(-time.Minute)
	claims := Claims{
		UserID: 1,
		Email:  "a@x.com",
		Role:   models.RoleStandard,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(exp.Add(-TokenTTL)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewService(testSecret).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService(testSecret)

	for _, raw := range []string{"", "abc", "a.b.c", "ey.ey.ey"} {
		_, err := svc.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
