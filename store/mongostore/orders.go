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

// Orders is the orders collection
type Orders struct {
	col *mongo.Collection
}

func (s *Orders) Insert(ctx context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now().UTC()
	if _, err := s.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Orders) All(ctx context.Context) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.col, bson.M{}, newest(0))
}

func (s *Orders) ByEmail(ctx context.Context, email string, limit int64) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.col, bson.M{"email": email}, newest(limit))
}

func (s *Orders) ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return findOne[models.Order](ctx, s.col, bson.M{"_id": id})
}

func (s *Orders) ByOrderNum(ctx context.Context, orderNum string) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.col, bson.M{"orderNum": orderNum}, newest(0))
}

func (s *Orders) Update(ctx context.Context, id primitive.ObjectID, patch models.OrderPatch) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Orders) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}

// Counters keeps named sequences in the counters collection. Each Next is a
// single atomic findAndModify, so concurrent callers never share a value.
type Counters struct {
	col *mongo.Collection
}

func (s *Counters) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := upsertRetrying(func() error {
		return s.col.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	})
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return counter.Seq, nil
}

var (
	_ store.Orders    = (*Orders)(nil)
	_ store.Sequencer = (*Counters)(nil)
)
