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

type AddressRepository interface {
	CreateAddress(ctx context.Context, address *models.Address) error
	GetAddress(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error)
	ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]*models.Address, error)
	UpdateAddress(ctx context.Context, address *models.Address) error
	DeleteAddress(ctx context.Context, userID, id primitive.ObjectID) error
	SetDefault(ctx context.Context, userID, id primitive.ObjectID) error
}

type addressRepository struct {
	collection *mongo.Collection
}

func NewAddressRepo(db *mongo.Database) AddressRepository {
	return &addressRepository{collection: db.Collection(collectionAddresses)}
}

func (r *addressRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	address.CreatedAt = now
	address.UpdatedAt = now

	result, err := r.collection.InsertOne(dbCtx, address)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		address.ID = id
	}

	return nil
}

func (r *addressRepository) GetAddress(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var address models.Address

	if err := r.collection.FindOne(dbCtx, bson.M{"_id": id, "user_id": userID}).Decode(&address); err != nil {
		return nil, notFoundOr(err, "failed to get address")
	}

	return &address, nil
}

func (r *addressRepository) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]*models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(dbCtx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(dbCtx)

	addresses := make([]*models.Address, 0)
	if err := cursor.All(dbCtx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}

	return addresses, nil
}

func (r *addressRepository) UpdateAddress(ctx context.Context, address *models.Address) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	address.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":       address.Name,
		"phone":      address.Phone,
		"line1":      address.Line1,
		"line2":      address.Line2,
		"landmark":   address.Landmark,
		"city":       address.City,
		"district":   address.District,
		"state":      address.State,
		"pincode":    address.Pincode,
		"updated_at": address.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": address.ID, "user_id": address.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *addressRepository) DeleteAddress(ctx context.Context, userID, id primitive.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// SetDefault marks one address as default and clears the flag on the user's others.
func (r *addressRepository) SetDefault(ctx context.Context, userID, id primitive.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_default": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	_, err = r.collection.UpdateMany(dbCtx,
		bson.M{"user_id": userID, "_id": bson.M{"$ne": id}, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear previous default address: %w", err)
	}

	return nil
}
