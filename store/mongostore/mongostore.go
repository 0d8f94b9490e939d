// Package mongostore implements the store capabilities on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aruth-api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	SlidersCollection    = "sliders"
	OrdersCollection     = "orders"
	ReviewsCollection    = "reviews"
	UsersCollection      = "users"
	CountersCollection   = "counters"
)

// newestFirst sorts on the creation time, the id breaking ties between
// documents inserted within the same millisecond.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// DB owns the client connection pool and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the connection pool and verifies the server is reachable.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	return &DB{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Ping checks the server is still reachable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongostore: ping: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the queries and the uniqueness
// guarantees rely on. It is idempotent.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "orderNum", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "orderNum", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "productId", Value: 1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		ProductsCollection: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "categories", Value: 1}}},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := d.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongostore: create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Store wires every capability to its collection.
func (d *DB) Store() store.Store {
	return store.Store{
		Products:   &Products{col: d.db.Collection(ProductsCollection)},
		Categories: &Categories{col: d.db.Collection(CategoriesCollection)},
		Sliders:    &Sliders{col: d.db.Collection(SlidersCollection)},
		Orders:     &Orders{col: d.db.Collection(OrdersCollection)},
		Sequence:   &Counters{col: d.db.Collection(CountersCollection)},
		Reviews:    &Reviews{col: d.db.Collection(ReviewsCollection)},
		Users:      &Users{col: d.db.Collection(UsersCollection)},
		Health:     d,
	}
}

// findAll runs a query and decodes every document; the result is never nil.
func findAll[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return out, nil
}

// findOne decodes a single document, mapping no match to store.ErrNotFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	err := col.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", col.Name(), err)
	}
	return &out, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id interface{}) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// upsertRetrying runs an upsert, running it once more if it lost an insert
// race: two upserts matching nothing both insert, and the unique index fails
// the second one. The retry then matches the winner's document.
func upsertRetrying(upsert func() error) error {
	err := upsert()
	if mongo.IsDuplicateKeyError(err) {
		err = upsert()
	}
	return err
}

func newest(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}
