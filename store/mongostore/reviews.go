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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Reviews is the reviews collection
type Reviews struct {
	col *mongo.Collection
}

func (s *Reviews) Upsert(ctx context.Context, r *models.Review) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"orderId":     r.OrderID,
			"productId":   r.ProductID,
			"ratings":     r.Ratings,
			"text":        r.Text,
			"email":       r.Email,
			"productImg":  r.ProductImg,
			"productName": r.ProductName,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	filter := bson.M{"orderNum": r.OrderNum}
	err := upsertRetrying(func() error {
		return s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(r)
	})
	if err != nil {
		return fmt.Errorf("upsert review %s: %w", r.OrderNum, err)
	}
	return nil
}

func (s *Reviews) ByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.col, bson.M{"productId": productID}, newest(0))
}

func (s *Reviews) ByEmail(ctx context.Context, email string) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.col, bson.M{"email": email}, newest(0))
}

func (s *Reviews) ByOrderNum(ctx context.Context, orderNum string) (*models.Review, error) {
	return findOne[models.Review](ctx, s.col, bson.M{"orderNum": orderNum})
}

func (s *Reviews) ByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return findOne[models.Review](ctx, s.col, bson.M{"_id": id})
}

func (s *Reviews) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}

func (s *Reviews) Ratings(ctx context.Context, productID string) ([]float64, error) {
	opts := options.Find().SetProjection(bson.M{"ratings": 1})
	stars, err := findAll[struct {
		Ratings float64 `bson:"ratings"`
	}](ctx, s.col, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, err
	}

	ratings := make([]float64, len(stars))
	for i, star := range stars {
		ratings[i] = star.Ratings
	}
	return ratings, nil
}

var _ store.Reviews = (*Reviews)(nil)
