package mongostore

import (
	"context"
	"fmt"
	"time"

	"aruth-api/models"
	"aruth-api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Users is the users collection
type Users struct {
	col *mongo.Collection
}

// onInsert holds the fields a newly created user starts with.
func onInsert() bson.M {
	return bson.M{"role": models.RoleCustomer, "createdAt": time.Now().UTC()}
}

func (s *Users) upsert(ctx context.Context, email string, set bson.M) error {
	update := bson.M{"$setOnInsert": onInsert()}
	// MongoDB rejects an empty $set
	if len(set) > 0 {
		update["$set"] = set
	}
	err := upsertRetrying(func() error {
		_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Users) Register(ctx context.Context, email string, profile models.Profile) error {
	set := bson.M{}
	if profile.Name != nil {
		set["name"] = *profile.Name
	}
	if profile.Image != nil {
		set["image"] = *profile.Image
	}
	return s.upsert(ctx, email, set)
}

func (s *Users) UpdateContact(ctx context.Context, email string, contact models.Contact) error {
	return s.upsert(ctx, email, bson.M{"address": contact.Address, "mob": contact.Mob})
}

func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"email": email})
}

func (s *Users) All(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.col, bson.M{}, newest(0))
}

func (s *Users) ByRole(ctx context.Context, role string) ([]models.User, error) {
	return findAll[models.User](ctx, s.col, bson.M{"role": role}, newest(0))
}

func (s *Users) SetRole(ctx context.Context, email, role string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Users = (*Users)(nil)
