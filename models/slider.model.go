package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slider is a promotional banner of the home page
type Slider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Image     string             `bson:"img" json:"img"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks an admin supplied slider.
func (s *Slider) Validate() error {
	if s.Image == "" {
		return errors.New("img is required")
	}
	return nil
}
