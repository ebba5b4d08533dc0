package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DeviceRepository interface {
	FindByIP(ctx context.Context, ip string) (*models.DeviceBlock, error)
	IncrementAttempt(ctx context.Context, ip string, at time.Time, blockAt int, until time.Time) (*models.DeviceBlock, error)
	Reset(ctx context.Context, ip string) error
	Delete(ctx context.Context, ip string) error
}

type deviceRepository struct {
	collection *mongo.Collection
}

func NewDeviceRepo(db *mongo.Database) DeviceRepository {
	return &deviceRepository{collection: db.Collection(collectionDeviceBlocks)}
}

func (r *deviceRepository) FindByIP(ctx context.Context, ip string) (*models.DeviceBlock, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var block models.DeviceBlock

	err := r.collection.FindOne(dbCtx, bson.M{"ip_address": ip}).Decode(&block)
	if err != nil {
		return nil, notFoundOr(err, "failed to find device block")
	}

	return &block, nil
}

// IncrementAttempt bumps resend_count and stamps last_attempt in one upsert. When the new
// count reaches blockAt and no block is active, blocked_until is set to until in the same write.
func (r *deviceRepository) IncrementAttempt(ctx context.Context, ip string, at time.Time, blockAt int, until time.Time) (*models.DeviceBlock, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "resend_count", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$resend_count", 0}}}, 1,
			}}}},
			{Key: "last_attempt", Value: at},
			{Key: "created_at", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$created_at", at}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "blocked_until", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$gte", Value: bson.A{"$resend_count", blockAt}}},
					bson.D{{Key: "$not", Value: bson.A{bson.D{{Key: "$gt", Value: bson.A{"$blocked_until", at}}}}}},
				}}}},
				{Key: "then", Value: until},
				{Key: "else", Value: "$blocked_until"},
			}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var block models.DeviceBlock

	err := r.collection.FindOneAndUpdate(dbCtx, bson.M{"ip_address": ip}, update, opts).Decode(&block)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	return &block, nil
}

func (r *deviceRepository) Reset(ctx context.Context, ip string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"resend_count": 0},
		"$unset": bson.M{"blocked_until": ""},
	}

	if _, err := r.collection.UpdateOne(dbCtx, bson.M{"ip_address": ip}, update); err != nil {
		return fmt.Errorf("failed to reset device block: %w", err)
	}

	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, ip string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.DeleteOne(dbCtx, bson.M{"ip_address": ip}); err != nil {
		return fmt.Errorf("failed to delete device block: %w", err)
	}

	return nil
}
