package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	if err := createIndexes(client, cfg.DBName); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	// Accounts collection: one document per external identity
	accountsCollection := db.Collection("accounts")
	accountIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "instagram_account_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "last_crawled_at", Value: -1}},
		},
	}
	_, err := accountsCollection.Indexes().CreateMany(context.Background(), accountIndexes)
	if err != nil {
		return err
	}

	// Posts collection: media id uniqueness is the de-duplication mechanism
	postsCollection := db.Collection("posts")
	postIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "instagram_media_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "analyzed", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}
	_, err = postsCollection.Indexes().CreateMany(context.Background(), postIndexes)
	if err != nil {
		return err
	}

	// Templates collection indexes
	templatesCollection := db.Collection("templates")
	templateIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "tags", Value: 1}},
		},
	}
	_, err = templatesCollection.Indexes().CreateMany(context.Background(), templateIndexes)
	if err != nil {
		return err
	}

	return nil
}
