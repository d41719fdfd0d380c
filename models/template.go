package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template is a reusable content pattern derived from an account's analyzed
// posts. ExamplePostIDs are references only, not ownership: a referenced post
// deleted out-of-band resolves to absence when the template is read.
type Template struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AccountID      primitive.ObjectID   `bson:"account_id" json:"accountId"`
	Title          string               `bson:"title" json:"title"`
	PromptTemplate string               `bson:"prompt_template" json:"promptTemplate"`
	Tone           string               `bson:"tone,omitempty" json:"tone,omitempty"`
	Structure      string               `bson:"structure,omitempty" json:"structure,omitempty"`
	Tags           []string             `bson:"tags" json:"tags"`
	ExamplePostIDs []primitive.ObjectID `bson:"example_post_ids" json:"examplePostIds"`
	Editable       bool                 `bson:"editable" json:"editable"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updatedAt"`
}
