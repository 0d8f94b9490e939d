package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses an admin can set
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents a customer's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	OrderNum        string             `bson:"orderNum" json:"orderNum"`
	Email           string             `bson:"email" json:"email"`
	ProductID       string             `bson:"productId,omitempty" json:"productId,omitempty"`
	ProductImg      string             `bson:"productImg" json:"productImg"`
	ProductName     string             `bson:"productName" json:"productName"`
	ProductQuantity int                `bson:"productQuantity" json:"productQuantity"`
	Size            string             `bson:"size,omitempty" json:"size,omitempty"`
	Status          string             `bson:"status" json:"status"`
	Date            string             `bson:"date" json:"date"`
	Total           float64            `bson:"total" json:"total"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks a checkout payload.
func (o *Order) Validate() error {
	if o.ProductName == "" {
		return errors.New("productName is required")
	}
	if o.ProductQuantity <= 0 {
		return errors.New("productQuantity must be positive")
	}
	if o.Total < 0 {
		return errors.New("total must not be negative")
	}
	return nil
}

// OrderSummary is the customer's order list projection.
type OrderSummary struct {
	ID              primitive.ObjectID `json:"_id"`
	ProductImg      string             `json:"productImg"`
	ProductName     string             `json:"productName"`
	ProductQuantity int                `json:"productQuantity"`
	Size            string             `json:"size,omitempty"`
	Status          string             `json:"status"`
	OrderNum        string             `json:"orderNum"`
	Date            string             `json:"date"`
}

// Summary projects o for the my-orders list.
func (o Order) Summary() OrderSummary {
	return OrderSummary{
		ID:              o.ID,
		ProductImg:      o.ProductImg,
		ProductName:     o.ProductName,
		ProductQuantity: o.ProductQuantity,
		Size:            o.Size,
		Status:          o.Status,
		OrderNum:        o.OrderNum,
		Date:            o.Date,
	}
}

// RecentOrder is the dashboard projection of the latest orders.
type RecentOrder struct {
	ID         primitive.ObjectID `json:"_id"`
	OrderNum   string             `json:"orderNum"`
	Date       string             `json:"date"`
	ProductImg string             `json:"productImg"`
	Total      float64            `json:"total"`
}

// Recent projects o for the recent orders widget.
func (o Order) Recent() RecentOrder {
	return RecentOrder{
		ID:         o.ID,
		OrderNum:   o.OrderNum,
		Date:       o.Date,
		ProductImg: o.ProductImg,
		Total:      o.Total,
	}
}

// OrderRow is the admin table projection of an order.
type OrderRow struct {
	ID              primitive.ObjectID `json:"_id"`
	ProductImg      string             `json:"productImg"`
	ProductName     string             `json:"productName"`
	ProductQuantity int                `json:"productQuantity"`
	Status          string             `json:"status"`
	Date            string             `json:"date"`
}

// Row projects o for the admin order table.
func (o Order) Row() OrderRow {
	return OrderRow{
		ID:              o.ID,
		ProductImg:      o.ProductImg,
		ProductName:     o.ProductName,
		ProductQuantity: o.ProductQuantity,
		Status:          o.Status,
		Date:            o.Date,
	}
}

// OrderPatch is the admin update payload of an order.
type OrderPatch struct {
	Status *string `json:"status" bson:"status,omitempty"`
}

// Validate checks the requested status.
func (p OrderPatch) Validate() error {
	if p.Status == nil {
		return errors.New("status is required")
	}
	if !ValidStatus(*p.Status) {
		return errors.New("unknown order status")
	}
	return nil
}

// Apply merges the patch into dst.
func (p OrderPatch) Apply(dst *Order) {
	if p.Status != nil {
		dst.Status = *p.Status
	}
}
