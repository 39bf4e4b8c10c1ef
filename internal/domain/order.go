package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Valid reports membership in the status set. Any status may transition to
// any other; membership is the only rule.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Address struct {
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:80" json:"city"`
	State   string `gorm:"size:80" json:"state"`
	Pincode string `gorm:"size:20" json:"pincode"`
}

// Order is immutable once created except for OrderStatus. OrderID comes from
// the client at checkout time.
type Order struct {
	ID                  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID             string      `gorm:"uniqueIndex;size:60" json:"orderId"`
	CustomerName        string      `gorm:"size:140" json:"customerName"`
	Address             Address     `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	ContactNumber       string      `gorm:"size:30" json:"contactNumber"`
	OrderDate           time.Time   `json:"orderDate"`
	OrderStatus         OrderStatus `gorm:"type:varchar(20);index" json:"orderStatus"`
	TotalAmount         float64     `gorm:"type:decimal(12,2)" json:"totalAmount"`
	Lines               []OrderLine `json:"products"`
	DistanceFromStore   float64     `gorm:"type:decimal(8,2)" json:"distanceFromStore"`
	WhatsappMessageSent bool        `gorm:"not null;default:false" json:"whatsappMessageSent"`
	CreatedAt           time.Time   `json:"-"`
	UpdatedAt           time.Time   `json:"-"`
}

// OrderLine snapshots a product at purchase time; later catalog edits do not
// touch it.
type OrderLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID      uuid.UUID `gorm:"type:uuid;index" json:"-"`
	ProductID    string    `gorm:"size:40;index" json:"productId"`
	Size         string    `gorm:"size:10" json:"size"`
	CurrentPrice float64   `gorm:"type:decimal(12,2)" json:"currentPrice"`
	Name         string    `gorm:"size:180" json:"name"`
	Quantity     int       `gorm:"not null" json:"quantity"`
}
