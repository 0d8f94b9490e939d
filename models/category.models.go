package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category types
const (
	CategoryHome  = "home"
	CategoryOther = "other"
)

// Category represents a catalog category shown on the storefront
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Text      string             `bson:"text" json:"text"`
	Type      string             `bson:"type" json:"type"`
	Image     string             `bson:"img,omitempty" json:"img,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks an admin supplied category.
func (c *Category) Validate() error {
	if c.Text == "" {
		return errors.New("text is required")
	}
	if c.Type == "" {
		c.Type = CategoryOther
	}
	if c.Type != CategoryHome && c.Type != CategoryOther {
		return errors.New("type must be home or other")
	}
	return nil
}

// CategoryTitle is the title-only projection used by the admin forms.
type CategoryTitle struct {
	ID   primitive.ObjectID `json:"_id"`
	Text string             `json:"text"`
}

// Title projects c to its title.
func (c Category) Title() CategoryTitle {
	return CategoryTitle{ID: c.ID, Text: c.Text}
}
