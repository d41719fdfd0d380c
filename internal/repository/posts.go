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

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection("posts")}
}

func (r *PostRepository) FindByMediaID(ctx context.Context, instagramMediaID string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"instagram_media_id": instagramMediaID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Insert(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	post.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ApplyPatch writes only the fields present in the patch.
func (r *PostRepository) ApplyPatch(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.ThumbnailURL != nil {
		set["thumbnail_url"] = *patch.ThumbnailURL
	}
	if patch.MediaType != nil {
		set["media_type"] = *patch.MediaType
	}
	if patch.LikesCount != nil {
		set["likes_count"] = *patch.LikesCount
	}
	if patch.CommentsCount != nil {
		set["comments_count"] = *patch.CommentsCount
	}
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetAnalysis persists a successful analysis and marks the post analyzed.
func (r *PostRepository) SetAnalysis(ctx context.Context, id primitive.ObjectID, analysis *models.AnalysisResult) error {
	update := bson.M{"$set": bson.M{
		"analysis_result": analysis,
		"analyzed":        true,
		"updated_at":      time.Now(),
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}

// FindUnanalyzedWithCaption selects the analysis batch: unanalyzed posts with
// a nonempty caption, bounded by limit.
func (r *PostRepository) FindUnanalyzedWithCaption(ctx context.Context, accountID primitive.ObjectID, limit int) ([]models.Post, error) {
	filter := bson.M{
		"account_id": accountID,
		"analyzed":   false,
		"caption":    bson.M{"$exists": true, "$ne": ""},
	}
	opts := options.Find().SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

// FindAnalyzed selects the synthesis sample: analyzed posts with a stored
// analysis result, bounded by limit.
func (r *PostRepository) FindAnalyzed(ctx context.Context, accountID primitive.ObjectID, limit int) ([]models.Post, error) {
	filter := bson.M{
		"account_id":      accountID,
		"analyzed":        true,
		"analysis_result": bson.M{"$exists": true, "$ne": nil},
	}
	opts := options.Find().SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *PostRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return r.find(ctx, bson.M{"account_id": accountID}, opts)
}

func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// FindByIDs resolves post references; ids with no matching document are
// simply absent from the result.
func (r *PostRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *PostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
