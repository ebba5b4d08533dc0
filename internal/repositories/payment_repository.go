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

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	ListPaymentsByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Payment, int64, error)
	UpdatePaymentStatus(ctx context.Context, intentID string, status models.PaymentStatus, reason string) error
}

type paymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepo(db *mongo.Database) PaymentRepository {
	return &paymentRepository{collection: db.Collection(collectionPayments)}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	result, err := r.collection.InsertOne(dbCtx, payment)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = id
	}

	return nil
}

func (r *paymentRepository) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var payment models.Payment

	if err := r.collection.FindOne(dbCtx, bson.M{"_id": id}).Decode(&payment); err != nil {
		return nil, notFoundOr(err, "failed to get payment")
	}

	return &payment, nil
}

func (r *paymentRepository) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var payment models.Payment

	if err := r.collection.FindOne(dbCtx, bson.M{"payment_intent_id": intentID}).Decode(&payment); err != nil {
		return nil, notFoundOr(err, "failed to get payment by intent")
	}

	return &payment, nil
}

func (r *paymentRepository) ListPaymentsByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Payment, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(dbCtx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	cursor, err := r.collection.Find(dbCtx, filter, paging(page, pageSize).SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer cursor.Close(dbCtx)

	payments := make([]*models.Payment, 0)
	if err := cursor.All(dbCtx, &payments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode payments: %w", err)
	}

	return payments, total, nil
}

func (r *paymentRepository) UpdatePaymentStatus(ctx context.Context, intentID string, status models.PaymentStatus, reason string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	set := bson.M{"status": status, "updated_at": time.Now()}
	if reason != "" {
		set["failure_reason"] = reason
	}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"payment_intent_id": intentID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
