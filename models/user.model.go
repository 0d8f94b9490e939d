package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a user in the system
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role" json:"role"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Mob       string             `bson:"mob,omitempty" json:"mob,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsAdmin reports whether the stored role grants admin access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Profile is the registration payload. Role is deliberately absent so
// a client can never grant itself admin access by registering.
type Profile struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// Apply writes the provided profile fields onto u.
func (p Profile) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Image != nil {
		u.Image = *p.Image
	}
}

// Contact is the delivery address payload of update-address.
type Contact struct {
	Address string `json:"address"`
	Mob     string `json:"mob"`
}
