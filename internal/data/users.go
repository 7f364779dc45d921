package data

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoAccountStore performs account operations against the users collection.
type MongoAccountStore struct {
	// coll is the "users" collection; its unique email index is created by db.CreateIndexes
	coll *mongo.Collection
}

// NewMongoAccountStore returns a MongoAccountStore using the provided collection.
func NewMongoAccountStore(coll *mongo.Collection) *MongoAccountStore {
	return &MongoAccountStore{coll: coll}
}

// Create inserts a new account document. A duplicate-key error from the unique
// email index is the only conflict signal.
func (s *MongoAccountStore) Create(ctx context.Context, a *Account) error {
	result, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return classify("insert account", err)
	}

	a.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindByEmail finds an account by its normalized email.
func (s *MongoAccountStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classify("find account by email", err)
	}
	return &a, nil
}

// Save writes the mutable fields of an existing account. lastLogin only moves
// forward; a is updated with the value that was stored.
func (s *MongoAccountStore) Save(ctx context.Context, a *Account) error {
	update := bson.M{"$set": bson.M{"fullName": a.FullName}}
	if a.LastLogin != nil {
		update["$max"] = bson.M{"lastLogin": *a.LastLogin}
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"lastLogin": 1})

	var stored Account
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": a.ID}, update, opts).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("save account %s: %w", a.ID.Hex(), ErrNotFound)
		}
		return classify("save account", err)
	}
	a.LastLogin = stored.LastLogin
	return nil
}

// Count returns the number of accounts.
func (s *MongoAccountStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, classify("count accounts", err)
	}
	return n, nil
}

// ListAll returns every account with the password projected out.
func (s *MongoAccountStore) ListAll(ctx context.Context) ([]*Account, error) {
	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.M{"createdAt": 1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify("list accounts", err)
	}
	defer cursor.Close(ctx)

	accounts := []*Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, classify("decode accounts", err)
	}
	return accounts, nil
}

// DeleteAll removes every account and returns how many were deleted.
func (s *MongoAccountStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, classify("delete accounts", err)
	}
	return res.DeletedCount, nil
}

// classify wraps err with the operation name and marks link failures as ErrUnavailable.
func classify(op string, err error) error {
	if errors.Is(err, mongo.ErrClientDisconnected) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
