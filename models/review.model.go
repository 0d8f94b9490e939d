package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds of a review
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's review of an ordered product, one per order
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	OrderNum    string             `bson:"orderNum" json:"orderNum"`
	OrderID     string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	ProductID   string             `bson:"productId" json:"productId"`
	Ratings     float64            `bson:"ratings" json:"ratings"`
	Text        string             `bson:"text" json:"text"`
	Email       string             `bson:"email" json:"email"`
	ProductImg  string             `bson:"productImg,omitempty" json:"productImg,omitempty"`
	ProductName string             `bson:"productName,omitempty" json:"productName,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks a review payload.
func (r *Review) Validate() error {
	if _, err := primitive.ObjectIDFromHex(r.ProductID); err != nil {
		return errors.New("productId must be a valid id")
	}
	if r.Ratings < MinRating || r.Ratings > MaxRating {
		return errors.New("ratings must be between 1 and 5")
	}
	return nil
}

// ReviewSummary is the projection of the author's own review list.
type ReviewSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	OrderNum    string             `json:"orderNum"`
	OrderID     string             `json:"orderId,omitempty"`
	ProductImg  string             `json:"productImg,omitempty"`
	ProductName string             `json:"productName,omitempty"`
	Ratings     float64            `json:"ratings"`
	Text        string             `json:"text"`
}

// Summary projects r for the my-reviews list.
func (r Review) Summary() ReviewSummary {
	return ReviewSummary{
		ID:          r.ID,
		OrderNum:    r.OrderNum,
		OrderID:     r.OrderID,
		ProductImg:  r.ProductImg,
		ProductName: r.ProductName,
		Ratings:     r.Ratings,
		Text:        r.Text,
	}
}
