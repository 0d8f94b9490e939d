// Package memstore keeps every collection in process memory. It backs the
// memory store driver for local runs and the handler tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"aruth-api/models"
	"aruth-api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB holds the collections in insertion order behind one mutex.
type DB struct {
	mu         sync.Mutex
	products   []models.Product
	categories []models.Category
	sliders    []models.Slider
	orders     []models.Order
	reviews    []models.Review
	users      []models.User
	counters   map[string]int64
}

// New returns an empty database.
func New() *DB {
	return &DB{counters: map[string]int64{}}
}

// Store wires every capability to db.
func (db *DB) Store() store.Store {
	return store.Store{
		Products:   products{db},
		Categories: categories{db},
		Sliders:    sliders{db},
		Orders:     orders{db},
		Sequence:   sequence{db},
		Reviews:    reviews{db},
		Users:      users{db},
		Health:     db,
	}
}

// Ping always succeeds: the data lives in this process.
func (db *DB) Ping(context.Context) error { return nil }

func now() time.Time { return time.Now().UTC() }

// newest walks items from the last inserted, keeping those matching keep,
// until limit items are collected. A limit of 0 means no limit.
func newest[T any](items []T, limit int64, keep func(*T) bool) []T {
	out := []T{}
	for i := len(items) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if keep == nil || keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func indexOf[T any](items []T, match func(*T) bool) int {
	for i := range items {
		if match(&items[i]) {
			return i
		}
	}
	return -1
}

func remove[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}

type products struct{ db *DB }

func (s products) Insert(_ context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now()
	p.RatingsRevision = 0
	s.db.products = append(s.db.products, clonedProduct(*p))
	return nil
}

func (s products) All(_ context.Context) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return cloneProducts(newest(s.db.products, 0, nil)), nil
}

func (s products) LatestByType(_ context.Context, typ string, limit int64) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return cloneProducts(newest(s.db.products, limit, func(p *models.Product) bool { return p.Type == typ })), nil
}

func (s products) ByCategory(_ context.Context, name string, limit int64) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return cloneProducts(newest(s.db.products, limit, func(p *models.Product) bool { return p.HasCategory(name) })), nil
}

func (s products) ByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.products, func(p *models.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, store.ErrNotFound
	}
	p := clonedProduct(s.db.products[i])
	return &p, nil
}

func (s products) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.products, func(p *models.Product) bool { return p.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	patch.Apply(&s.db.products[i])
	s.db.products[i] = clonedProduct(s.db.products[i])
	return nil
}

func (s products) SetRating(_ context.Context, id primitive.ObjectID, rating *float64, revision int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.products, func(p *models.Product) bool { return p.ID == id })
	if i < 0 || s.db.products[i].RatingsRevision >= revision {
		return false, nil
	}
	if rating != nil {
		r := *rating
		rating = &r
	}
	s.db.products[i].Ratings = rating
	s.db.products[i].RatingsRevision = revision
	return true, nil
}

func clonedProduct(p models.Product) models.Product {
	if p.Categories != nil {
		p.Categories = append([]string{}, p.Categories...)
	}
	if p.Ratings != nil {
		r := *p.Ratings
		p.Ratings = &r
	}
	return p
}

func cloneProducts(ps []models.Product) []models.Product {
	for i := range ps {
		ps[i] = clonedProduct(ps[i])
	}
	return ps
}

type categories struct{ db *DB }

func (s categories) Insert(_ context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now()
	s.db.categories = append(s.db.categories, *c)
	return nil
}

func (s categories) All(_ context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.categories, 0, nil), nil
}

func (s categories) LatestByType(_ context.Context, typ string, limit int64) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.categories, limit, func(c *models.Category) bool { return c.Type == typ }), nil
}

func (s categories) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.categories, func(c *models.Category) bool { return c.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.categories = remove(s.db.categories, i)
	return nil
}

type sliders struct{ db *DB }

func (s sliders) Insert(_ context.Context, sl *models.Slider) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sl.ID = primitive.NewObjectID()
	sl.CreatedAt = now()
	s.db.sliders = append(s.db.sliders, *sl)
	return nil
}

func (s sliders) All(_ context.Context) ([]models.Slider, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return newest(s.db.sliders, 0, nil), nil
}

func (s sliders) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.sliders, func(sl *models.Slider) bool { return sl.ID == id })
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.sliders = remove(s.db.sliders, i)
	return nil
}
