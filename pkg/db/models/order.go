package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks the lifecycle of a captured checkout.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order snapshots a checkout submission together with the cart at that moment.
type Order struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index"`
	Email         string      `gorm:"column:email;not null"`
	FullName      string      `gorm:"column:full_name;not null"`
	AddressLine1  string      `gorm:"column:address_line1;not null"`
	AddressLine2  *string     `gorm:"column:address_line2"`
	City          string      `gorm:"column:city;not null"`
	State         string      `gorm:"column:state;not null"`
	PostalCode    string      `gorm:"column:postal_code;not null"`
	Country       string      `gorm:"column:country;not null"`
	Phone         *string     `gorm:"column:phone"`
	SubtotalCents int         `gorm:"column:subtotal_cents;not null"`
	Status        OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem freezes the product name and effective unit price so later
// catalog edits never change what the customer agreed to.
type OrderItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductVariantID uuid.UUID `gorm:"column:product_variant_id;type:uuid;not null"`
	ProductName      string    `gorm:"column:product_name;not null"`
	Color            string    `gorm:"column:color;not null"`
	SelectedSize     string    `gorm:"column:selected_size;not null"`
	Quantity         int       `gorm:"column:quantity;not null"`
	UnitPriceCents   int       `gorm:"column:unit_price_cents;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
