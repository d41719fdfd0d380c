package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-template-platform/models"
)

type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{collection: db.Collection("accounts")}
}

func (r *AccountRepository) FindByInstagramID(ctx context.Context, instagramAccountID string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"instagram_account_id": instagramAccountID}, nil)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"username": username}, nil)
}

func (r *AccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

// FindLatestCrawled returns the account with the most recent crawl, or nil
// when no account has been crawled yet.
func (r *AccountRepository) FindLatestCrawled(ctx context.Context) (*models.Account, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "last_crawled_at", Value: -1}})
	return r.findOne(ctx, bson.M{}, opts)
}

func (r *AccountRepository) Insert(ctx context.Context, account *models.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		return err
	}
	account.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateProfile overwrites the profile fields with freshly fetched values.
// Unlike post fields, profile fields are always treated as authoritative.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, username, accountType string, mediaCount int) error {
	update := bson.M{"$set": bson.M{
		"username":     username,
		"account_type": accountType,
		"media_count":  mediaCount,
		"updated_at":   time.Now(),
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}

func (r *AccountRepository) TouchCrawled(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"last_crawled_at": at,
		"updated_at":      at,
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}

func (r *AccountRepository) TouchAnalyzed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"last_analyzed_at": at,
		"updated_at":       at,
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Account, error) {
	var account models.Account
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&account)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&account)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
