package data

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoContentStore reads content records from the videos collection.
type MongoContentStore struct {
	coll *mongo.Collection
}

// NewMongoContentStore returns a MongoContentStore using the provided collection.
func NewMongoContentStore(coll *mongo.Collection) *MongoContentStore {
	return &MongoContentStore{coll: coll}
}

// Latest returns the document with the greatest _id.
func (s *MongoContentStore) Latest(ctx context.Context) (*ContentItem, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var item ContentItem
	if err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classify("find latest content", err)
	}
	return &item, nil
}
