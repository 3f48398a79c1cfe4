package models

import (
	"time"
)

// Role is a closed set. Anything else coming out of a token or the database
// grants nothing.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string `gorm:"not null"                  json:"name"`
	Email        string `gorm:"unique;not null"           json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         Role   `gorm:"not null;default:standard" json:"role"`
}

// PublicUser is the only view of a user that ever leaves the API.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type Poster struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `gorm:"not null"                 json:"imageURL"`
	UserID      uint      `gorm:"index;not null"           json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint        `gorm:"index;not null"              json:"userId"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Total     float64     `gorm:"not null"                    json:"total"`
	Status    OrderStatus `gorm:"not null;default:Processing" json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderItem is a snapshot of the poster at order time, not a reference.
// Editing or deleting a poster later must not rewrite order history.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  uint    `gorm:"index;not null"           json:"-"`
	Title    string  `gorm:"not null"                 json:"title"`
	Price    float64 `gorm:"not null"                 json:"price"`
	ImageURL string  `json:"imageUrl"`
}
