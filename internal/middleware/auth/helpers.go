package auth

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/vibora/poster-shop/internal/models"
	"github.com/vibora/poster-shop/internal/token"
)

const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

var ErrNoIdentity = errors.New("no authenticated identity in context")

func setUserContext(c echo.Context, claims *token.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
}

func GetID(c echo.Context) (uint, error) {
	id, ok := c.Get(ContextUserID).(uint)
	if !ok {
		return 0, ErrNoIdentity
	}
	return id, nil
}

func GetRole(c echo.Context) (models.Role, error) {
	role, ok := c.Get(ContextRole).(models.Role)
	if !ok {
		return "", ErrNoIdentity
	}
	return role, nil
}

// OwnerOrAdmin is the ownership policy: a resource may be mutated by its
// creator or by an admin, nobody else. Evaluated fresh on every call.
func OwnerOrAdmin(role models.Role, userID, ownerID uint) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleStandard:
		return userID == ownerID
	}
	return false
}
