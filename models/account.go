package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account tracks one connected Instagram identity. Exactly one document
// exists per instagram_account_id; it is created on the first successful
// crawl and never deleted.
type Account struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstagramAccountID string             `bson:"instagram_account_id" json:"instagramAccountId"`
	Username           string             `bson:"username,omitempty" json:"username,omitempty"`
	AccountType        string             `bson:"account_type,omitempty" json:"accountType,omitempty"`
	MediaCount         int                `bson:"media_count,omitempty" json:"mediaCount,omitempty"`
	LastCrawledAt      *time.Time         `bson:"last_crawled_at,omitempty" json:"lastCrawledAt,omitempty"`
	LastAnalyzedAt     *time.Time         `bson:"last_analyzed_at,omitempty" json:"lastAnalyzedAt,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}
