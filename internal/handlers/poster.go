package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vibora/poster-shop/internal/logging"
	middlewareauth "github.com/vibora/poster-shop/internal/middleware/auth"
	"github.com/vibora/poster-shop/internal/models"
	"github.com/vibora/poster-shop/internal/mykafka"
)

type PosterHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *PosterHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "poster_events", fmt.Sprint(event["posterID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *PosterHandler) Upload(c echo.Context) error {
	userID, err := middlewareauth.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		ImageURL    string  `json:"imageURL"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" || req.Price == 0 || req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title, price and imageURL are required")
	}

	poster := models.Poster{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		UserID:      userID,
	}
	if err := h.DB.Create(&poster).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "error uploading poster")
	}

	h.publish(c, map[string]interface{}{
		"type":     "poster_uploaded",
		"posterID": poster.ID,
		"userID":   userID,
		"title":    poster.Title,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":    "Poster uploaded successfully!",
		"poster": poster,
	})
}

func (h *PosterHandler) GetPosters(c echo.Context) error {
	posters := []models.Poster{}
	if err := h.DB.Order("id ASC").Find(&posters).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "error fetching posters")
	}
	return c.JSON(http.StatusOK, posters)
}

func (h *PosterHandler) MyPosters(c echo.Context) error {
	userID, err := middlewareauth.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	posters := []models.Poster{}
	if err := h.DB.Where("user_id = ?", userID).Order("id ASC").Find(&posters).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "error fetching user posters")
	}
	return c.JSON(http.StatusOK, posters)
}

func (h *PosterHandler) Delete(c echo.Context) error {
	userID, err := middlewareauth.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	role, err := middlewareauth.GetRole(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid poster id")
	}

	var poster models.Poster
	if err := h.DB.First(&poster, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "poster not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "error deleting poster")
	}

	if !middlewareauth.OwnerOrAdmin(role, userID, poster.UserID) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed to delete this poster")
	}

	if err := h.DB.Delete(&poster).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "error deleting poster")
	}

	h.publish(c, map[string]interface{}{
		"type":     "poster_deleted",
		"posterID": poster.ID,
		"userID":   userID,
	})

	return c.JSON(http.StatusOK, echo.Map{"msg": "Poster deleted"})
}
