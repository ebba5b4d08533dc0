package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryCart keeps lines keyed by session and product and enforces the version check like Mongo does.
type memoryCart struct {
	mu    sync.Mutex
	lines map[string]*models.CartLine
}

func newMemoryCart() *memoryCart {
	return &memoryCart{lines: make(map[string]*models.CartLine)}
}

func cartKey(sessionID string, productID primitive.ObjectID) string {
	return sessionID + "/" + productID.Hex()
}

func (m *memoryCart) FindLine(_ context.Context, sessionID string, productID primitive.ObjectID) (*models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line, ok := m.lines[cartKey(sessionID, productID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *line
	return &clone, nil
}

func (m *memoryCart) ListLines(_ context.Context, sessionID string) ([]*models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]*models.CartLine, 0)
	for _, line := range m.lines {
		if line.SessionID == sessionID {
			clone := *line
			lines = append(lines, &clone)
		}
	}
	return lines, nil
}

func (m *memoryCart) InsertLine(_ context.Context, line *models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cartKey(line.SessionID, line.ProductID)
	if _, ok := m.lines[key]; ok {
		return repository.ErrDuplicate
	}
	line.ID = primitive.NewObjectID()
	line.Version = 1
	clone := *line
	m.lines[key] = &clone
	return nil
}

func (m *memoryCart) UpdateLine(_ context.Context, line *models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cartKey(line.SessionID, line.ProductID)
	stored, ok := m.lines[key]
	if !ok || stored.Version != line.Version {
		return repository.ErrVersionConflict
	}
	line.Version++
	clone := *line
	m.lines[key] = &clone
	return nil
}

func (m *memoryCart) DeleteLine(_ context.Context, line *models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cartKey(line.SessionID, line.ProductID)
	stored, ok := m.lines[key]
	if !ok || stored.Version != line.Version {
		return repository.ErrVersionConflict
	}
	delete(m.lines, key)
	return nil
}

func (m *memoryCart) DeleteByProduct(_ context.Context, sessionID string, productID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cartKey(sessionID, productID)
	_, ok := m.lines[key]
	delete(m.lines, key)
	return ok, nil
}

func (m *memoryCart) DeleteSession(_ context.Context, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key, line := range m.lines {
		if line.SessionID == sessionID {
			delete(m.lines, key)
			n++
		}
	}
	return n, nil
}

func (m *memoryCart) CountLines(ctx context.Context, sessionID string) (int64, error) {
	lines, _ := m.ListLines(ctx, sessionID)
	return int64(len(lines)), nil
}

func (m *memoryCart) seed(line *models.CartLine) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line.ID = primitive.NewObjectID()
	line.Version = 1
	m.lines[cartKey(line.SessionID, line.ProductID)] = line
}

func weightProduct(stockKg float64) *models.Product {
	return &models.Product{
		ID:           primitive.NewObjectID(),
		Name:         "Seer Fish",
		Price:        900,
		Weight:       250,
		Unit:         units.Gram,
		BaseUnit:     "250g",
		MinimumOrder: 250,
		StockQty:     stockKg,
		Available:    true,
	}
}

func pieceProduct(stock float64) *models.Product {
	return &models.Product{
		ID:           primitive.NewObjectID(),
		Name:         "Crab",
		Price:        120,
		Weight:       1,
		Unit:         units.Piece,
		BaseUnit:     "1 piece",
		MinimumOrder: 1,
		StockQty:     stock,
		Available:    true,
	}
}

func setupCart(t *testing.T, products ...*models.Product) (service.CartService, *memoryCart, *mocks.ProductRepository) {
	t.Helper()

	cart := newMemoryCart()
	productRepo := new(mocks.ProductRepository)
	for _, p := range products {
		productRepo.On("GetProductByID", mock.Anything, p.ID).Return(p, nil).Maybe()
	}

	return service.NewCartService(cart, productRepo), cart, productRepo
}

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCart_AddingBaseUnitThreeTimesEndsInKilograms(t *testing.T) {
	// Arrange
	ctx := context.Background()
	product := weightProduct(10)
	cartService, _, _ := setupCart(t, product)

	// Act
	first, err := cartService.AddToCart(ctx, "s1", product.ID)
	require.NoError(t, err)
	_, err = cartService.AddToCart(ctx, "s1", product.ID)
	require.NoError(t, err)
	third, err := cartService.AddToCart(ctx, "s1", product.ID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 250.0, first.Line.TotalWeight)
	assert.Equal(t, units.Gram, first.Line.Unit)
	assert.Equal(t, 0.75, third.Line.TotalWeight)
	assert.Equal(t, units.Kilogram, third.Line.Unit)
	assert.Equal(t, int64(3), third.Line.Version)
}

func TestCart_SubKilogramTotalsStayInKilograms(t *testing.T) {
	ctx := context.Background()
	product := weightProduct(10)
	cartService, cart, _ := setupCart(t, product)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 250, Unit: units.Gram, Snapshot: models.ProductSnapshot{BaseUnit: "250g", MinimumOrder: 250}})

	result, err := cartService.Increment(ctx, "s1", product.ID)

	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Line.TotalWeight)
	assert.Equal(t, units.Kilogram, result.Line.Unit)
}

func TestCart_DecrementBelowMinimumDeletesLine(t *testing.T) {
	// Arrange
	ctx := context.Background()
	product := weightProduct(10)
	cartService, cart, productRepo := setupCart(t, product)
	cart.seed(&models.CartLine{
		SessionID:   "s1",
		ProductID:   product.ID,
		TotalWeight: 0.6,
		Unit:        units.Kilogram,
		Snapshot:    models.ProductSnapshot{BaseUnit: "250g", MinimumOrder: 500},
	})

	// Act
	result, err := cartService.Decrement(ctx, "s1", product.ID)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Nil(t, result.Line)

	_, err = cart.FindLine(ctx, "s1", product.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	productRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
}

func TestCart_DecrementAboveMinimumKeepsLine(t *testing.T) {
	ctx := context.Background()
	product := weightProduct(10)
	cartService, cart, _ := setupCart(t, product)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 1, Unit: units.Kilogram, Snapshot: models.ProductSnapshot{BaseUnit: "250g", MinimumOrder: 500}})

	result, err := cartService.Decrement(ctx, "s1", product.ID)

	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Equal(t, 0.75, result.Line.TotalWeight)
}

func TestCart_AddSpecificCapsAtStock(t *testing.T) {
	// Arrange
	ctx := context.Background()
	product := pieceProduct(10)
	cartService, cart, _ := setupCart(t, product)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 8, Unit: units.Piece, Snapshot: models.ProductSnapshot{BaseUnit: "1 piece", MinimumOrder: 1}})

	// Act
	result, err := cartService.AddSpecific(ctx, "s1", product.ID, units.New(4, units.Piece))

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Capped)
	assert.False(t, result.Removed)
	assert.Equal(t, 10.0, result.Line.TotalWeight)
	assert.Equal(t, units.Piece, result.Line.Unit)

	stored, err := cart.FindLine(ctx, "s1", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.TotalWeight)
}

func TestCart_IncrementOverStockIsRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	product := pieceProduct(10)
	cartService, cart, _ := setupCart(t, product)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 10, Unit: units.Piece, Snapshot: models.ProductSnapshot{BaseUnit: "1 piece", MinimumOrder: 1}})

	// Act
	result, err := cartService.Increment(ctx, "s1", product.ID)

	// Assert
	assert.Nil(t, result)
	requireAppCode(t, err, appErrors.ErrCodeOutOfStock)

	stored, err := cart.FindLine(ctx, "s1", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.TotalWeight)
	assert.Equal(t, int64(1), stored.Version)
}

func TestCart_WeightStockIsComparedInKilograms(t *testing.T) {
	ctx := context.Background()
	product := weightProduct(1)
	cartService, cart, _ := setupCart(t, product)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 0.75, Unit: units.Kilogram, Snapshot: models.ProductSnapshot{BaseUnit: "250g", MinimumOrder: 250}})

	result, err := cartService.Increment(ctx, "s1", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Line.TotalWeight)

	_, err = cartService.Increment(ctx, "s1", product.ID)
	requireAppCode(t, err, appErrors.ErrCodeOutOfStock)
}

func TestCart_AddSpecific(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Creates absent line in kilograms", func(t *testing.T) {
		product := weightProduct(5)
		cartService, _, _ := setupCart(t, product)

		result, err := cartService.AddSpecific(ctx, "s1", product.ID, units.New(750, units.Gram))

		require.NoError(t, err)
		assert.Equal(t, 0.75, result.Line.TotalWeight)
		assert.Equal(t, units.Kilogram, result.Line.Unit)
		assert.Equal(t, "Seer Fish", result.Line.Snapshot.Name)
	})

	t.Run("Failure - Below minimum on absent line", func(t *testing.T) {
		product := weightProduct(5)
		cartService, _, _ := setupCart(t, product)

		_, err := cartService.AddSpecific(ctx, "s1", product.ID, units.New(100, units.Gram))

		requireAppCode(t, err, appErrors.ErrCodeBelowMinimum)
	})

	t.Run("Failure - Mixing units", func(t *testing.T) {
		product := pieceProduct(5)
		cartService, cart, _ := setupCart(t, product)
		cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 2, Unit: units.Piece, Snapshot: models.ProductSnapshot{BaseUnit: "1 piece", MinimumOrder: 1}})

		_, err := cartService.AddSpecific(ctx, "s1", product.ID, units.New(1, units.Kilogram))

		requireAppCode(t, err, appErrors.ErrCodeIncompatibleUnits)
	})

	t.Run("Failure - Fractional pieces", func(t *testing.T) {
		product := pieceProduct(5)
		cartService, _, _ := setupCart(t, product)

		_, err := cartService.AddSpecific(ctx, "s1", product.ID, units.New(1.5, units.Piece))

		requireAppCode(t, err, appErrors.ErrCodeValidation)
	})
}

func TestCart_RemoveSpecific(t *testing.T) {
	ctx := context.Background()
	product := weightProduct(5)
	cartService, cart, _ := setupCart(t, product)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 1.5, Unit: units.Kilogram, Snapshot: models.ProductSnapshot{BaseUnit: "250g", MinimumOrder: 500}})

	result, err := cartService.RemoveSpecific(ctx, "s1", product.ID, units.New(0.5, units.Kilogram))
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Line.TotalWeight)

	result, err = cartService.RemoveSpecific(ctx, "s1", product.ID, units.New(600, units.Gram))
	require.NoError(t, err)
	assert.True(t, result.Removed)

	_, err = cartService.RemoveSpecific(ctx, "s1", product.ID, units.New(100, units.Gram))
	requireAppCode(t, err, appErrors.ErrCodeNotFound)
}

func TestCart_FirstAddRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("Unavailable product", func(t *testing.T) {
		product := weightProduct(5)
		product.Available = false
		cartService, _, _ := setupCart(t, product)

		_, err := cartService.AddToCart(ctx, "s1", product.ID)

		requireAppCode(t, err, appErrors.ErrCodeOutOfStock)
	})

	t.Run("No stock", func(t *testing.T) {
		product := pieceProduct(0)
		cartService, _, _ := setupCart(t, product)

		_, err := cartService.AddToCart(ctx, "s1", product.ID)

		requireAppCode(t, err, appErrors.ErrCodeOutOfStock)
	})

	t.Run("Unknown product", func(t *testing.T) {
		cartService, _, productRepo := setupCart(t)
		missing := primitive.NewObjectID()
		productRepo.On("GetProductByID", mock.Anything, missing).Return(nil, repository.ErrNotFound).Once()

		_, err := cartService.AddToCart(ctx, "s1", missing)

		requireAppCode(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCart_VersionConflictIsRetried(t *testing.T) {
	// Arrange
	ctx := context.Background()
	product := pieceProduct(10)
	cartRepo := new(mocks.CartRepository)
	productRepo := new(mocks.ProductRepository)
	cartService := service.NewCartService(cartRepo, productRepo)

	line := func(count float64, version int64) *models.CartLine {
		return &models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: count, Unit: units.Piece, Version: version, Snapshot: models.ProductSnapshot{BaseUnit: "1 piece", MinimumOrder: 1}}
	}

	productRepo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil)
	cartRepo.On("FindLine", mock.Anything, "s1", product.ID).Return(line(2, 1), nil).Once()
	cartRepo.On("FindLine", mock.Anything, "s1", product.ID).Return(line(3, 2), nil).Once()
	cartRepo.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l *models.CartLine) bool { return l.Version == 1 })).Return(repository.ErrVersionConflict).Once()
	cartRepo.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l *models.CartLine) bool { return l.Version == 2 })).Return(nil).Once()

	// Act
	result, err := cartService.Increment(ctx, "s1", product.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Line.TotalWeight)
	cartRepo.AssertExpectations(t)
}

func TestCart_PersistentConflictGivesUp(t *testing.T) {
	ctx := context.Background()
	product := pieceProduct(10)
	cartRepo := new(mocks.CartRepository)
	productRepo := new(mocks.ProductRepository)
	cartService := service.NewCartService(cartRepo, productRepo)

	productRepo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil)
	stale := &models.CartLine{SessionID: "s1", ProductID: product.ID, TotalWeight: 2, Unit: units.Piece, Version: 1, Snapshot: models.ProductSnapshot{BaseUnit: "1 piece", MinimumOrder: 1}}
	cartRepo.On("FindLine", mock.Anything, "s1", product.ID).Return(stale, nil).Times(3)
	cartRepo.On("UpdateLine", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict).Times(3)

	_, err := cartService.Increment(ctx, "s1", product.ID)

	requireAppCode(t, err, appErrors.ErrCodeConflict)
	cartRepo.AssertExpectations(t)
}

func TestCart_DirectOperations(t *testing.T) {
	ctx := context.Background()
	a, b := pieceProduct(5), weightProduct(5)
	cartService, cart, _ := setupCart(t, a, b)
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: a.ID, TotalWeight: 1, Unit: units.Piece})
	cart.seed(&models.CartLine{SessionID: "s1", ProductID: b.ID, TotalWeight: 0.5, Unit: units.Kilogram})
	cart.seed(&models.CartLine{SessionID: "s2", ProductID: a.ID, TotalWeight: 1, Unit: units.Piece})

	count, err := cartService.CountLines(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := cartService.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)

	require.NoError(t, cartService.RemoveLine(ctx, "s1", a.ID))
	requireAppCode(t, cartService.RemoveLine(ctx, "s1", a.ID), appErrors.ErrCodeNotFound)

	deleted, err := cartService.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err = cartService.CountLines(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
