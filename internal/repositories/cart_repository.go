package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartRepository interface {
	FindLine(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartLine, error)
	ListLines(ctx context.Context, sessionID string) ([]*models.CartLine, error)
	InsertLine(ctx context.Context, line *models.CartLine) error
	UpdateLine(ctx context.Context, line *models.CartLine) error
	DeleteLine(ctx context.Context, line *models.CartLine) error
	DeleteByProduct(ctx context.Context, sessionID string, productID primitive.ObjectID) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) (int64, error)
	CountLines(ctx context.Context, sessionID string) (int64, error)
}

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepo(db *mongo.Database) CartRepository {
	return &cartRepository{collection: db.Collection(collectionCartLines)}
}

func (r *cartRepository) FindLine(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var line models.CartLine

	err := r.collection.FindOne(dbCtx, bson.M{"session_id": sessionID, "product_id": productID}).Decode(&line)
	if err != nil {
		return nil, notFoundOr(err, "failed to find cart line")
	}

	return &line, nil
}

func (r *cartRepository) ListLines(ctx context.Context, sessionID string) ([]*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(dbCtx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer cursor.Close(dbCtx)

	lines := make([]*models.CartLine, 0)
	if err := cursor.All(dbCtx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart lines: %w", err)
	}

	return lines, nil
}

// InsertLine returns ErrDuplicate when another request created the line first.
func (r *cartRepository) InsertLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	line.CreatedAt = now
	line.UpdatedAt = now
	line.Version = 1

	result, err := r.collection.InsertOne(dbCtx, line)
	if err != nil {
		return duplicateOr(err, "failed to insert cart line")
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		line.ID = id
	}

	return nil
}

// UpdateLine writes quantity fields only if the stored version still matches line.Version.
// On success line.Version is advanced to the stored value.
func (r *cartRepository) UpdateLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()

	filter := bson.M{"_id": line.ID, "version": line.Version}
	update := bson.M{
		"$set": bson.M{
			"total_weight": line.TotalWeight,
			"unit":         line.Unit,
			"updated_at":   now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(dbCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	line.Version++
	line.UpdatedAt = now

	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"_id": line.ID, "version": line.Version})
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrVersionConflict
	}

	return nil
}

func (r *cartRepository) DeleteByProduct(ctx context.Context, sessionID string, productID primitive.ObjectID) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"session_id": sessionID, "product_id": productID})
	if err != nil {
		return false, fmt.Errorf("failed to remove cart line: %w", err)
	}

	return result.DeletedCount > 0, nil
}

func (r *cartRepository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(dbCtx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *cartRepository) CountLines(ctx context.Context, sessionID string) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(dbCtx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count cart lines: %w", err)
	}

	return count, nil
}
