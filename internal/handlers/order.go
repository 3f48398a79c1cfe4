package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vibora/poster-shop/internal/logging"
	middlewareauth "github.com/vibora/poster-shop/internal/middleware/auth"
	"github.com/vibora/poster-shop/internal/models"
	"github.com/vibora/poster-shop/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// totalTolerance absorbs float rounding between the client's sum and ours.
const totalTolerance = 0.005

func (h *OrderHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := middlewareauth.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req struct {
		Items []struct {
			Title    string  `json:"title"`
			Price    float64 `json:"price"`
			ImageURL string  `json:"imageUrl"`
		} `json:"items"`
		Total float64 `json:"total"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no items in order")
	}

	var sum float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "order item is missing a title")
		}
		sum += it.Price
		items = append(items, models.OrderItem{
			Title:    it.Title,
			Price:    it.Price,
			ImageURL: it.ImageURL,
		})
	}
	if math.Abs(sum-req.Total) > totalTolerance {
		return echo.NewHTTPError(http.StatusBadRequest, "order total does not match items")
	}

	order := models.Order{
		UserID: userID,
		Items:  items,
		Total:  sum,
		Status: models.StatusProcessing,
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}

	h.publish(c, map[string]interface{}{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.Total,
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	userID, err := middlewareauth.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	orders := []models.Order{}
	if err := h.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
	return c.JSON(http.StatusOK, orders)
}
