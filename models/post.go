package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media type values as reported by the Instagram API.
const (
	MediaTypeImage    = "IMAGE"
	MediaTypeVideo    = "VIDEO"
	MediaTypeCarousel = "CAROUSEL_ALBUM"
)

// AnalysisResult is the structured caption analysis produced by the
// language-model adapter. SentimentScore ranges from -1 to 1.
type AnalysisResult struct {
	Tone           string   `bson:"tone" json:"tone"`
	Structure      string   `bson:"structure" json:"structure"`
	Prompt         string   `bson:"prompt" json:"prompt"`
	Themes         []string `bson:"themes" json:"themes"`
	SentimentScore float64  `bson:"sentiment_score" json:"sentimentScore"`
}

// PostPatch is a sparse update for a stored post. Only non-nil fields are
// written; the crawl pipeline uses it to fill gaps without clobbering
// existing values.
type PostPatch struct {
	ThumbnailURL  *string
	MediaType     *string
	LikesCount    *int
	CommentsCount *int
}

// IsEmpty reports whether the patch would change nothing.
func (p PostPatch) IsEmpty() bool {
	return p.ThumbnailURL == nil && p.MediaType == nil && p.LikesCount == nil && p.CommentsCount == nil
}

// Post is one crawled Instagram media item. instagram_media_id is unique
// across all accounts and is the de-duplication key between crawls.
// Analyzed is set true exactly once analysis succeeds and never reverts.
type Post struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstagramMediaID string             `bson:"instagram_media_id" json:"instagramMediaId"`
	AccountID        primitive.ObjectID `bson:"account_id" json:"accountId"`
	Caption          string             `bson:"caption" json:"caption"`
	MediaURL         string             `bson:"media_url,omitempty" json:"mediaUrl,omitempty"`
	ThumbnailURL     string             `bson:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
	MediaType        string             `bson:"media_type,omitempty" json:"mediaType,omitempty"`
	LikesCount       int                `bson:"likes_count" json:"likesCount"`
	CommentsCount    int                `bson:"comments_count" json:"commentsCount"`
	Timestamp        *time.Time         `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	Analyzed         bool               `bson:"analyzed" json:"analyzed"`
	AnalysisResult   *AnalysisResult    `bson:"analysis_result,omitempty" json:"analysisResult,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}
