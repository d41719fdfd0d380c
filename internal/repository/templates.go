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

type TemplateRepository struct {
	collection *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{collection: db.Collection("templates")}
}

func (r *TemplateRepository) Insert(ctx context.Context, template *models.Template) error {
	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return err
	}
	template.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// DeleteByAccount removes the account's entire template set. Callers must
// only invoke this after a successful synthesis response has been parsed.
func (r *TemplateRepository) DeleteByAccount(ctx context.Context, accountID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"account_id": accountID})
	return err
}

func (r *TemplateRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]models.Template, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []models.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	var template models.Template
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}
