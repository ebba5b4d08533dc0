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

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetSessionToken(ctx context.Context, id primitive.ObjectID, token string, loginAt *time.Time) error
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection(collectionUsers)}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(dbCtx, user)
	if err != nil {
		return duplicateOr(err, "failed to insert user")
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var user models.User

	if err := r.collection.FindOne(dbCtx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "failed to get user")
	}

	return &user, nil
}

func (r *userRepository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var user models.User

	if err := r.collection.FindOne(dbCtx, bson.M{"phone": phone}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "failed to get user by phone")
	}

	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{"name": user.Name, "email": user.Email, "updated_at": user.UpdatedAt}}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// SetSessionToken replaces the user's only valid session token.
func (r *userRepository) SetSessionToken(ctx context.Context, id primitive.ObjectID, token string, loginAt *time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	set := bson.M{"session_token": token, "updated_at": time.Now()}
	if loginAt != nil {
		set["last_login_at"] = *loginAt
	}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set session token: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
