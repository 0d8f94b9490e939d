package mongostore

import (
	"context"
	"fmt"
	"time"

	"aruth-api/models"
	"aruth-api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Products is the products collection
type Products struct {
	col *mongo.Collection
}

func (s *Products) Insert(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.RatingsRevision = 0
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Products) All(ctx context.Context) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.col, bson.M{}, newest(0))
}

func (s *Products) LatestByType(ctx context.Context, typ string, limit int64) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.col, bson.M{"type": typ}, newest(limit))
}

func (s *Products) ByCategory(ctx context.Context, name string, limit int64) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.col, bson.M{"categories": name}, newest(limit))
}

func (s *Products) ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, s.col, bson.M{"_id": id})
}

func (s *Products) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Products) SetRating(ctx context.Context, id primitive.ObjectID, rating *float64, revision int64) (bool, error) {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"ratingsRevision": bson.M{"$exists": false}},
			bson.M{"ratingsRevision": bson.M{"$lt": revision}},
		},
	}

	var update bson.M
	if rating == nil {
		update = bson.M{
			"$unset": bson.M{"ratings": ""},
			"$set":   bson.M{"ratingsRevision": revision},
		}
	} else {
		update = bson.M{"$set": bson.M{"ratings": *rating, "ratingsRevision": revision}}
	}

	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("set product rating: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// Categories is the categories collection
type Categories struct {
	col *mongo.Collection
}

func (s *Categories) Insert(ctx context.Context, c *models.Category) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	if _, err := s.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Categories) All(ctx context.Context) ([]models.Category, error) {
	return findAll[models.Category](ctx, s.col, bson.M{}, newest(0))
}

func (s *Categories) LatestByType(ctx context.Context, typ string, limit int64) ([]models.Category, error) {
	return findAll[models.Category](ctx, s.col, bson.M{"type": typ}, newest(limit))
}

func (s *Categories) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}

// Sliders is the sliders collection
type Sliders struct {
	col *mongo.Collection
}

func (s *Sliders) Insert(ctx context.Context, sl *models.Slider) error {
	sl.ID = primitive.NewObjectID()
	sl.CreatedAt = time.Now().UTC()
	if _, err := s.col.InsertOne(ctx, sl); err != nil {
		return fmt.Errorf("insert slider: %w", err)
	}
	return nil
}

func (s *Sliders) All(ctx context.Context) ([]models.Slider, error) {
	return findAll[models.Slider](ctx, s.col, bson.M{}, newest(0))
}

func (s *Sliders) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}

var (
	_ store.Products   = (*Products)(nil)
	_ store.Categories = (*Categories)(nil)
	_ store.Sliders    = (*Sliders)(nil)
)
