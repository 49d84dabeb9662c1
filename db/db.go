package db

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ToursCollection       *mongo.Collection
	BookingsCollection    *mongo.Collection
	WishlistsCollection   *mongo.Collection
	ReviewsCollection     *mongo.Collection
	SettingsCollection    *mongo.Collection
	PaymentsCollection    *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Init connects to MongoDB and binds the collection handles. Call once
// from main before the router starts serving.
func Init() error {
	uri := os.Getenv("MONGO_URL")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	database := Client.Database("voyago")
	UserCollection = database.Collection("users")
	ToursCollection = database.Collection("tours")
	BookingsCollection = database.Collection("bookings")
	WishlistsCollection = database.Collection("wishlists")
	ReviewsCollection = database.Collection("reviews")
	SettingsCollection = database.Collection("adminSettings")
	PaymentsCollection = database.Collection("payments")
	IdempotencyCollection = database.Collection("idempotency")

	if err := createIndexes(ctx); err != nil {
		log.Printf("index creation failed: %v", err)
		return err
	}
	return nil
}

// createIndexes declares every index the query layer relies on, so a
// fresh deployment cannot hit a missing-composite-index error at request
// time. Runs on every start; Mongo treats re-creation as a no-op.
func createIndexes(ctx context.Context) error {
	if _, err := UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"userid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"username": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return err
	}

	// Composite indexes for the catalog query builder: each allowed
	// order field paired with the filterable fields.
	if _, err := ToursCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"tourid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "location", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}, {Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "duration", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "tourid", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}, {Key: "tourid", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}, {Key: "tourid", Value: 1}}},
	}); err != nil {
		return err
	}

	if _, err := BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"bookingid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tourid", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.M{"status": 1}},
	}); err != nil {
		return err
	}

	// One wishlist entry per (user, tour); concurrent toggles collide on
	// this index instead of duplicating.
	if _, err := WishlistsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userid", Value: 1}, {Key: "tourid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := ReviewsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tourid", Value: 1}, {Key: "userid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := PaymentsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"paymentid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "bookingid", Value: 1}}},
	}); err != nil {
		return err
	}

	_, err := IdempotencyCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"key": 1}, Options: options.Index().SetUnique(true).SetName("unique_key")},
		{Keys: bson.M{"expires_at": 1}, Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at")},
	})
	return err
}

// Close disconnects the client during graceful shutdown.
func Close(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
}
