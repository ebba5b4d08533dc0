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

type OfferRepository interface {
	CreateOffer(ctx context.Context, offer *models.Offer) error
	GetOfferByCode(ctx context.Context, code string) (*models.Offer, error)
	ListOffers(ctx context.Context, activeAt *time.Time) ([]*models.Offer, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

type offerRepository struct {
	collection *mongo.Collection
}

func NewOfferRepo(db *mongo.Database) OfferRepository {
	return &offerRepository{collection: db.Collection(collectionOffers)}
}

func (r *offerRepository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now

	result, err := r.collection.InsertOne(dbCtx, offer)
	if err != nil {
		return duplicateOr(err, "failed to insert offer")
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		offer.ID = id
	}

	return nil
}

func (r *offerRepository) GetOfferByCode(ctx context.Context, code string) (*models.Offer, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var offer models.Offer

	if err := r.collection.FindOne(dbCtx, bson.M{"code": code}).Decode(&offer); err != nil {
		return nil, notFoundOr(err, "failed to get offer")
	}

	return &offer, nil
}

// ListOffers returns every offer, or only those running at activeAt when it is set.
func (r *offerRepository) ListOffers(ctx context.Context, activeAt *time.Time) ([]*models.Offer, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if activeAt != nil {
		filter = bson.M{
			"active":      true,
			"valid_from":  bson.M{"$lte": *activeAt},
			"valid_until": bson.M{"$gte": *activeAt},
		}
	}

	cursor, err := r.collection.Find(dbCtx, filter, options.Find().SetSort(bson.D{{Key: "valid_until", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer cursor.Close(dbCtx)

	offers := make([]*models.Offer, 0)
	if err := cursor.All(dbCtx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}

	return offers, nil
}

func (r *offerRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to deactivate offer: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
