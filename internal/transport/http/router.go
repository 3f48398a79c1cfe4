package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vibora/poster-shop/internal/handlers"
	middlewareauth "github.com/vibora/poster-shop/internal/middleware/auth"
	"github.com/vibora/poster-shop/internal/token"
)

type Deps struct {
	DB            *gorm.DB
	Tokens        *token.Service
	AuthHandler   *handlers.AuthHandler
	PosterHandler *handlers.PosterHandler
	OrderHandler  *handlers.OrderHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Vibora Backend Running !") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	requireLogin := middlewareauth.RequireLogin(d.Tokens)

	authGroup := e.Group("/api/auth")
	authGroup.POST("/signup", d.AuthHandler.Signup)
	authGroup.POST("/login", d.AuthHandler.Login)

	posters := e.Group("/api/poster")
	posters.GET("", d.PosterHandler.GetPosters)
	posters.POST("/upload", d.PosterHandler.Upload, requireLogin)
	posters.GET("/my-posters", d.PosterHandler.MyPosters, requireLogin)
	posters.DELETE("/:id", d.PosterHandler.Delete, requireLogin)

	orders := e.Group("/api/orders", requireLogin)
	orders.POST("", d.OrderHandler.Create)
	orders.GET("", d.OrderHandler.List)
}
