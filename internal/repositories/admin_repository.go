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
)

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	CountAdmins(ctx context.Context) (int64, error)
}

type adminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepo(db *mongo.Database) AdminRepository {
	return &adminRepository{collection: db.Collection(collectionAdmins)}
}

func (r *adminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	admin.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(dbCtx, admin)
	if err != nil {
		return duplicateOr(err, "failed to insert admin")
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		admin.ID = id
	}

	return nil
}

func (r *adminRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var admin models.Admin

	if err := r.collection.FindOne(dbCtx, bson.M{"username": username}).Decode(&admin); err != nil {
		return nil, notFoundOr(err, "failed to get admin")
	}

	return &admin, nil
}

func (r *adminRepository) CountAdmins(ctx context.Context) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(dbCtx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}
