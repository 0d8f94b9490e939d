// Package store defines the persistence capabilities of the API, one per
// collection. Implementations live in mongostore (production), memstore
// (local runs and tests) and redisstore (order sequence only).
//
// Every list operation returns records newest first, ordered by their
// creation time, and returns an empty slice rather than nil.
package store

import (
	"context"
	"errors"

	"aruth-api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a single record lookup or mutation matches
// nothing.
var ErrNotFound = errors.New("record not found")

// OrderSequence is the counter name used for order numbers.
const OrderSequence = "orders"

// Products stores the catalog items
type Products interface {
	Insert(ctx context.Context, p *models.Product) error
	All(ctx context.Context) ([]models.Product, error)
	// LatestByType returns at most limit products tagged typ.
	LatestByType(ctx context.Context, typ string, limit int64) ([]models.Product, error)
	// ByCategory returns products listing name among their categories.
	// A limit of 0 means no limit.
	ByCategory(ctx context.Context, name string, limit int64) ([]models.Product, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) error
	// SetRating writes the derived rating (nil unsets it) only if revision
	// is newer than the revision of the stored rating. It reports whether
	// the write happened.
	SetRating(ctx context.Context, id primitive.ObjectID, rating *float64, revision int64) (bool, error)
}

// Categories stores the catalog categories
type Categories interface {
	Insert(ctx context.Context, c *models.Category) error
	All(ctx context.Context) ([]models.Category, error)
	LatestByType(ctx context.Context, typ string, limit int64) ([]models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Sliders stores the home page banners
type Sliders interface {
	Insert(ctx context.Context, s *models.Slider) error
	All(ctx context.Context) ([]models.Slider, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Orders stores the customers' orders
type Orders interface {
	Insert(ctx context.Context, o *models.Order) error
	All(ctx context.Context) ([]models.Order, error)
	// ByEmail returns the orders of one customer; a limit of 0 means no limit.
	ByEmail(ctx context.Context, email string, limit int64) ([]models.Order, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ByOrderNum(ctx context.Context, orderNum string) ([]models.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.OrderPatch) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Sequencer hands out strictly increasing numbers per name, starting at 1.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Reviews stores product reviews, one per order number
type Reviews interface {
	// Upsert writes r keyed by r.OrderNum, keeping the id and creation time
	// of an existing review. r is updated with the stored id.
	Upsert(ctx context.Context, r *models.Review) error
	ByProduct(ctx context.Context, productID string) ([]models.Review, error)
	ByEmail(ctx context.Context, email string) ([]models.Review, error)
	ByOrderNum(ctx context.Context, orderNum string) (*models.Review, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Ratings returns the rating of every review of a product.
	Ratings(ctx context.Context, productID string) ([]float64, error)
}

// Users stores identities keyed by email
type Users interface {
	// Register upserts the user; the role is set to customer on insert only.
	Register(ctx context.Context, email string, profile models.Profile) error
	UpdateContact(ctx context.Context, email string, contact models.Contact) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
	ByRole(ctx context.Context, role string) ([]models.User, error)
	SetRole(ctx context.Context, email, role string) error
}

// Pinger reports whether a backend currently answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Pingers is healthy when every backend it holds is.
type Pingers []Pinger

func (ps Pingers) Ping(ctx context.Context) error {
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Store groups the collections the handlers depend on. It is built once at
// start up and handed to the controllers.
type Store struct {
	Products   Products
	Categories Categories
	Sliders    Sliders
	Orders     Orders
	Sequence   Sequencer
	Reviews    Reviews
	Users      Users
	// Health checks the backends behind the collections.
	Health Pinger
}
