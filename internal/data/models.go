package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account maps to the users collection. Password holds a bcrypt hash.
type Account struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	FullName  string        `bson:"fullName"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
	LastLogin *time.Time    `bson:"lastLogin"`
}

// ContentItem maps to the videos collection. Items are created outside this service.
type ContentItem struct {
	ID    bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title string        `bson:"title" json:"title"`
	URL   string        `bson:"url" json:"url"`
}
