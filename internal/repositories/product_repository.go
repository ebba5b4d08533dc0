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

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	SetImage(ctx context.Context, id primitive.ObjectID, data []byte, mime string) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty float64) error
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty float64) error
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepo(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection(collectionProducts)}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := r.collection.InsertOne(dbCtx, product)
	if err != nil {
		return duplicateOr(err, "failed to insert product")
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var product models.Product

	if err := r.collection.FindOne(dbCtx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, notFoundOr(err, "failed to get product")
	}

	return &product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.CategoryID != nil {
		query["category_id"] = *filter.CategoryID
	}
	if filter.AvailableOnly {
		query["available"] = true
	}

	total, err := r.collection.CountDocuments(dbCtx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := paging(filter.Page, filter.PageSize).SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(dbCtx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(dbCtx)

	products := make([]*models.Product, 0)
	if err := cursor.All(dbCtx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"category_id":   product.CategoryID,
		"name":          product.Name,
		"description":   product.Description,
		"price":         product.Price,
		"weight":        product.Weight,
		"unit":          product.Unit,
		"base_unit":     product.BaseUnit,
		"minimum_order": product.MinimumOrder,
		"stock_qty":     product.StockQty,
		"available":     product.Available,
		"updated_at":    product.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": product.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepository) SetImage(ctx context.Context, id primitive.ObjectID, data []byte, mime string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"image": data, "image_mime": mime, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to store product image: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(dbCtx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// ReserveStock decrements stock_qty only while enough stock remains.
func (r *productRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty float64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "stock_qty": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock_qty": -qty},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(dbCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func (r *productRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty float64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"stock_qty": qty},
		"$set": bson.M{"updated_at": time.Now()},
	}

	if _, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	return nil
}
