package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/social-connect/internal/models"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

const historyLimit = 50

type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	FindByIDForUser(ctx context.Context, id, userID string) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
}

type mongoPostRepo struct {
	col *mongo.Collection
}

func NewMongoPostRepo(db *mongo.Database, collection string) PostRepository {
	return &mongoPostRepo{col: db.Collection(collection)}
}

func (r *mongoPostRepo) Insert(ctx context.Context, post *models.Post) error {
	res, err := r.col.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}
	return nil
}

func (r *mongoPostRepo) Update(ctx context.Context, post *models.Post) error {
	update := bson.M{"$set": bson.M{
		"platforms": post.Platforms,
		"status":    post.Status,
	}}
	_, err := r.col.UpdateByID(ctx, post.ID, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *mongoPostRepo) FindByIDForUser(ctx context.Context, id, userID string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.ErrPostNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.ErrPostNotFound
	}
	var post models.Post
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "user_id": uid}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

// ListByUser returns the user's posts, newest first, capped at 50.
func (r *mongoPostRepo) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.ErrUserNotFound
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(historyLimit)
	cur, err := r.col.Find(ctx, bson.M{"user_id": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]models.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
