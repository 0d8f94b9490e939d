package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product tags used by the storefront sections
const (
	ProductPopular    = "popular"
	ProductJustForYou = "justForYou"
	ProductOther      = "other"
)

// Product represents an item of the catalog
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Image       string             `bson:"img" json:"img"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Discount    float64            `bson:"discount" json:"discount"`
	Categories  []string           `bson:"categories" json:"categories"`
	Type        string             `bson:"type" json:"type"`
	Ratings     *float64           `bson:"ratings,omitempty" json:"ratings,omitempty"`
	TotalSells  int                `bson:"totalSells" json:"totalSells"`
	CouponCode  string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`

	// RatingsRevision orders concurrent rating recomputes; see store.Products.SetRating.
	RatingsRevision int64 `bson:"ratingsRevision,omitempty" json:"-"`
}

// Validate checks the fields an admin must provide on insert.
func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Price < 0 || p.Discount < 0 {
		return errors.New("price and discount must not be negative")
	}
	if p.Type == "" {
		p.Type = ProductOther
	}
	if !validProductType(p.Type) {
		return errors.New("type must be one of popular, justForYou, other")
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return nil
}

func validProductType(t string) bool {
	switch t {
	case ProductPopular, ProductJustForYou, ProductOther:
		return true
	}
	return false
}

// HasCategory reports whether name is one of the product categories.
func (p *Product) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ProductCard is the storefront projection of a product.
type ProductCard struct {
	ID       primitive.ObjectID `json:"_id"`
	Image    string             `json:"img"`
	Name     string             `json:"name"`
	Ratings  *float64           `json:"ratings,omitempty"`
	Price    float64            `json:"price"`
	Discount float64            `json:"discount"`
}

// Card projects p for the popular and just-for-you sections.
func (p Product) Card() ProductCard {
	return ProductCard{
		ID:       p.ID,
		Image:    p.Image,
		Name:     p.Name,
		Ratings:  p.Ratings,
		Price:    p.Price,
		Discount: p.Discount,
	}
}

// ProductRow is the admin table projection of a product.
type ProductRow struct {
	ID         primitive.ObjectID `json:"_id"`
	Image      string             `json:"img"`
	Name       string             `json:"name"`
	Price      float64            `json:"price"`
	TotalSells int                `json:"totalSells"`
	CouponCode string             `json:"couponCode,omitempty"`
	Categories []string           `json:"categories"`
}

// Row projects p for the admin product table.
func (p Product) Row() ProductRow {
	return ProductRow{
		ID:         p.ID,
		Image:      p.Image,
		Name:       p.Name,
		Price:      p.Price,
		TotalSells: p.TotalSells,
		CouponCode: p.CouponCode,
		Categories: p.Categories,
	}
}

// ProductPatch is a merge patch: nil fields are left untouched.
type ProductPatch struct {
	Name        *string   `json:"name" bson:"name,omitempty"`
	Image       *string   `json:"img" bson:"img,omitempty"`
	Description *string   `json:"description" bson:"description,omitempty"`
	Price       *float64  `json:"price" bson:"price,omitempty"`
	Discount    *float64  `json:"discount" bson:"discount,omitempty"`
	Categories  *[]string `json:"categories" bson:"categories,omitempty"`
	Type        *string   `json:"type" bson:"type,omitempty"`
	TotalSells  *int      `json:"totalSells" bson:"totalSells,omitempty"`
	CouponCode  *string   `json:"couponCode" bson:"couponCode,omitempty"`
}

// Validate rejects values an insert would also reject.
func (p ProductPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("name must not be empty")
	}
	if (p.Price != nil && *p.Price < 0) || (p.Discount != nil && *p.Discount < 0) {
		return errors.New("price and discount must not be negative")
	}
	if p.Type != nil && !validProductType(*p.Type) {
		return errors.New("type must be one of popular, justForYou, other")
	}
	if p.Empty() {
		return errors.New("nothing to update")
	}
	return nil
}

// Empty reports whether the patch carries no field.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Image == nil && p.Description == nil && p.Price == nil &&
		p.Discount == nil && p.Categories == nil && p.Type == nil && p.TotalSells == nil &&
		p.CouponCode == nil
}

// Apply merges the patch into dst.
func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Image != nil {
		dst.Image = *p.Image
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Discount != nil {
		dst.Discount = *p.Discount
	}
	if p.Categories != nil {
		dst.Categories = *p.Categories
	}
	if p.Type != nil {
		dst.Type = *p.Type
	}
	if p.TotalSells != nil {
		dst.TotalSells = *p.TotalSells
	}
	if p.CouponCode != nil {
		dst.CouponCode = *p.CouponCode
	}
}
