package repository

import (
	"context"
	"time"

	"formforge/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenRepo handles MongoDB operations for Google OAuth tokens
type TokenRepo interface {
	Upsert(ctx context.Context, token *model.GoogleToken) error
	GetByUserID(ctx context.Context, userID string) (*model.GoogleToken, error)
	Delete(ctx context.Context, userID string) error
}

type tokenRepo struct {
	collection *mongo.Collection
}

// NewTokenRepo creates a new token repository
func NewTokenRepo(db *mongo.Database) TokenRepo {
	return &tokenRepo{
		collection: db.Collection("google_tokens"),
	}
}

func (r *tokenRepo) Upsert(ctx context.Context, token *model.GoogleToken) error {
	now := time.Now()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"userId": token.UserID}, token, opts)
	return err
}

func (r *tokenRepo) GetByUserID(ctx context.Context, userID string) (*model.GoogleToken, error) {
	var token model.GoogleToken
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&token)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}
