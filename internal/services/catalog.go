package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/cache"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

const MaxImageBytes = 2 << 20

type CatalogService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error

	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	SetImage(ctx context.Context, id primitive.ObjectID, data []byte) (*models.Product, error)
	GetImage(ctx context.Context, id primitive.ObjectID) ([]byte, string, error)
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.Cache
	group      singleflight.Group
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, c cache.Cache) CatalogService {
	return &catalogService{products: products, categories: categories, cache: c}
}

func (s *catalogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{
		Name:        utils.Sanitize(req.Name),
		Description: utils.Sanitize(req.Description),
	}

	if err := s.categories.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.DuplicateEntryError("Category already exists")
		}
		return nil, appErrors.DatabaseError("Failed to create category").WithError(err)
	}

	s.invalidate(ctx, cache.CategoriesKey)

	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	var cached []*models.Category
	if found, err := s.cache.Get(ctx, cache.CategoriesKey, &cached); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Category cache read failed", slog.String("error", err.Error()))
	} else if found {
		return cached, nil
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.CategoriesKey, categories, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Category cache write failed", slog.String("error", err.Error()))
	}

	return categories, nil
}

// DeleteCategory refuses while any product still points at the category.
func (s *catalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return appErrors.DatabaseError("Failed to check category products").WithError(err)
	}

	if count > 0 {
		return appErrors.ConflictError("Category still has products").
			WithDetail(fmt.Sprintf("%d products reference this category", count))
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("Category not found")
		}
		return appErrors.DatabaseError("Failed to delete category").WithError(err)
	}

	s.invalidate(ctx, cache.CategoriesKey)

	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return nil, appErrors.ValidationError("Invalid category ID")
	}

	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	unit, err := units.ParseUnit(req.Unit)
	if err != nil {
		return nil, appErrors.AddValidationError("unit", err.Error())
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	product := &models.Product{
		CategoryID:   categoryID,
		Name:         utils.Sanitize(req.Name),
		Description:  utils.Sanitize(req.Description),
		Price:        req.Price,
		Weight:       req.Weight,
		Unit:         unit,
		BaseUnit:     strings.TrimSpace(req.BaseUnit),
		MinimumOrder: req.MinimumOrder,
		StockQty:     req.StockQty,
		Available:    available,
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProduct serves from the cache. Concurrent misses for the same id share one database read.
func (s *catalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.Hex())
	logger := middleware.LoggerFromContext(ctx)

	var cached models.Product
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		product, err := s.products.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}

		product.EncodeImage()

		if err := s.cache.Set(ctx, key, product, 0); err != nil {
			logger.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		return product, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	product := *v.(*models.Product)

	return &product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {

	products, total, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	for _, p := range products {
		p.EncodeImage()
	}

	return products, total, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.CategoryID != nil {
		categoryID, err := primitive.ObjectIDFromHex(*req.CategoryID)
		if err != nil {
			return nil, appErrors.ValidationError("Invalid category ID")
		}
		if err := s.ensureCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if req.Name != nil {
		product.Name = utils.Sanitize(*req.Name)
	}
	if req.Description != nil {
		product.Description = utils.Sanitize(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.Unit != nil {
		unit, err := units.ParseUnit(*req.Unit)
		if err != nil {
			return nil, appErrors.AddValidationError("unit", err.Error())
		}
		product.Unit = unit
	}
	if req.BaseUnit != nil {
		product.BaseUnit = strings.TrimSpace(*req.BaseUnit)
	}
	if req.MinimumOrder != nil {
		product.MinimumOrder = *req.MinimumOrder
	}
	if req.StockQty != nil {
		product.StockQty = *req.StockQty
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, cache.Key(cache.ProductKeyPrefix, id.Hex()))
	product.EncodeImage()

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("Product not found")
		}
		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, cache.Key(cache.ProductKeyPrefix, id.Hex()))

	return nil
}

// SetImage accepts only image content, identified by sniffing the bytes rather than trusting the client.
func (s *catalogService) SetImage(ctx context.Context, id primitive.ObjectID, data []byte) (*models.Product, error) {

	if len(data) == 0 {
		return nil, appErrors.ValidationError("Image is empty")
	}

	if len(data) > MaxImageBytes {
		return nil, appErrors.ValidationError("Image must be at most 2 MiB")
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, appErrors.ValidationError("File must be an image").WithDetail("Detected type " + mime.String())
	}

	contentType, _, _ := strings.Cut(mime.String(), ";")

	if err := s.products.SetImage(ctx, id, data, contentType); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}
		return nil, appErrors.DatabaseError("Failed to store image").WithError(err)
	}

	s.invalidate(ctx, cache.Key(cache.ProductKeyPrefix, id.Hex()))

	return s.GetProduct(ctx, id)
}

func (s *catalogService) GetImage(ctx context.Context, id primitive.ObjectID) ([]byte, string, error) {

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", appErrors.NotFoundError("Product not found")
		}
		return nil, "", appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if len(product.Image) == 0 {
		return nil, "", appErrors.NotFoundError("Product has no image")
	}

	return product.Image, product.ImageMime, nil
}

func (s *catalogService) ensureCategory(ctx context.Context, id primitive.ObjectID) error {

	if _, err := s.categories.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.ValidationError("Category does not exist")
		}
		return appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	return nil
}

func (s *catalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

// validateProduct checks the unit fields agree: the base unit must be the same kind as the
// product unit, and the display quantity must reach the minimum order (grams or pieces).
func validateProduct(p *models.Product) error {

	base, err := units.ParseBaseUnit(p.BaseUnit)
	if err != nil {
		return appErrors.AddValidationError("base_unit", err.Error())
	}

	if !units.Compatible(base.Unit, p.Unit) {
		return appErrors.IncompatibleUnitsError("Base unit does not match the product unit").
			WithDetail(fmt.Sprintf("%s product cannot step by %s", p.Unit, base))
	}

	if p.Unit == units.Piece {
		if !decimal.NewFromFloat(p.Weight).IsInteger() {
			return appErrors.AddValidationError("weight", "piece products need a whole number")
		}
		if p.Weight < p.MinimumOrder {
			return appErrors.AddValidationError("weight", "must be at least the minimum order")
		}
		return nil
	}

	grams, err := units.New(p.Weight, p.Unit).Grams()
	if err != nil {
		return appErrors.AddValidationError("unit", err.Error())
	}

	if grams.LessThan(decimal.NewFromFloat(p.MinimumOrder)) {
		return appErrors.AddValidationError("weight", "must be at least the minimum order")
	}

	return nil
}
