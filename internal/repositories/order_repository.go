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

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Order, int64, error)
	ListOrders(ctx context.Context, status *models.OrderStatus, page, pageSize int) ([]*models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, intentID string) error
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection(collectionOrders)}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	result, err := r.collection.InsertOne(dbCtx, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var order models.Order

	if err := r.collection.FindOne(dbCtx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, notFoundOr(err, "failed to get order")
	}

	return &order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Order, int64, error) {
	return r.list(ctx, bson.M{"user_id": userID}, page, pageSize)
}

func (r *orderRepository) ListOrders(ctx context.Context, status *models.OrderStatus, page, pageSize int) ([]*models.Order, int64, error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}

	return r.list(ctx, filter, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, filter bson.M, page, pageSize int) ([]*models.Order, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	total, err := r.collection.CountDocuments(dbCtx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := paging(page, pageSize).SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(dbCtx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(dbCtx)

	orders := make([]*models.Order, 0)
	if err := cursor.All(dbCtx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, intentID string) error {
	fields := bson.M{"payment_status": status}
	if intentID != "" {
		fields["payment_intent_id"] = intentID
	}

	return r.set(ctx, id, fields)
}

func (r *orderRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	fields["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
