package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/metrics"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxCartAttempts bounds the read-modify-write loop when concurrent requests touch the same line.
const maxCartAttempts = 3

const (
	msgCapped  = "Quantity capped at available stock"
	msgRemoved = "Item removed from cart: quantity fell below the minimum order"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	AddToCart(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error)
	Increment(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error)
	Decrement(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error)
	AddSpecific(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error)
	RemoveSpecific(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error)
	RemoveLine(ctx context.Context, sessionID string, productID primitive.ObjectID) error
	ClearCart(ctx context.Context, sessionID string) (int64, error)
	CountLines(ctx context.Context, sessionID string) (int64, error)
}

type stockPolicy int

const (
	stockIgnore stockPolicy = iota
	stockReject
	stockCap
)

// lineChange describes one quantity operation. A nil step means one base-unit step from the snapshot.
type lineChange struct {
	op       string
	step     *units.Quantity
	subtract bool
	stock    stockPolicy
	create   bool
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {

	lines, err := s.cartRepo.ListLines(ctx, sessionID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return &models.Cart{SessionID: sessionID, Lines: lines, Count: len(lines)}, nil
}

func (s *cartService) AddToCart(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error) {
	return s.mutate(ctx, sessionID, productID, lineChange{op: "add", stock: stockReject, create: true})
}

func (s *cartService) Increment(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error) {
	return s.mutate(ctx, sessionID, productID, lineChange{op: "increment", stock: stockReject})
}

func (s *cartService) Decrement(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error) {
	return s.mutate(ctx, sessionID, productID, lineChange{op: "decrement", subtract: true, stock: stockIgnore})
}

func (s *cartService) AddSpecific(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error) {
	if err := validateSpecific(qty); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, productID, lineChange{op: "add_specific", step: &qty, stock: stockCap, create: true})
}

func (s *cartService) RemoveSpecific(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error) {
	if err := validateSpecific(qty); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, productID, lineChange{op: "remove_specific", step: &qty, subtract: true, stock: stockIgnore})
}

func (s *cartService) RemoveLine(ctx context.Context, sessionID string, productID primitive.ObjectID) error {

	removed, err := s.cartRepo.DeleteByProduct(ctx, sessionID, productID)
	if err != nil {
		return appErrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	if !removed {
		return appErrors.NotFoundError("Item not in cart")
	}

	metrics.RecordCartOperation("remove", "removed")
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (int64, error) {

	deleted, err := s.cartRepo.DeleteSession(ctx, sessionID)
	if err != nil {
		return 0, appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return deleted, nil
}

func (s *cartService) CountLines(ctx context.Context, sessionID string) (int64, error) {

	count, err := s.cartRepo.CountLines(ctx, sessionID)
	if err != nil {
		return 0, appErrors.DatabaseError("Failed to count cart items").WithError(err)
	}

	return count, nil
}

// mutate runs one change as a compare-and-swap, re-reading the line when another writer got there first.
func (s *cartService) mutate(ctx context.Context, sessionID string, productID primitive.ObjectID, change lineChange) (*models.CartMutation, error) {

	logger := middleware.LoggerFromContext(ctx).With(
		slog.String("sessionId", sessionID),
		slog.String("productId", productID.Hex()),
		slog.String("operation", change.op),
	)

	for attempt := 1; attempt <= maxCartAttempts; attempt++ {

		result, err := s.apply(ctx, sessionID, productID, change)
		if err == nil {
			metrics.RecordCartOperation(change.op, outcome(result))
			return result, nil
		}

		if errors.Is(err, repository.ErrVersionConflict) || errors.Is(err, repository.ErrDuplicate) {
			logger.Debug("Cart line changed concurrently, retrying", slog.Int("attempt", attempt))
			continue
		}

		metrics.RecordCartOperation(change.op, "rejected")
		return nil, err
	}

	logger.Warn("Cart line update kept conflicting", slog.Int("attempts", maxCartAttempts))
	metrics.RecordCartOperation(change.op, "conflict")

	return nil, appErrors.ConflictError("Cart was updated concurrently, please retry")
}

func (s *cartService) apply(ctx context.Context, sessionID string, productID primitive.ObjectID, change lineChange) (*models.CartMutation, error) {

	line, err := s.cartRepo.FindLine(ctx, sessionID, productID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.DatabaseError("Failed to fetch cart item").WithError(err)
		}
		if !change.create {
			return nil, appErrors.NotFoundError("Item not in cart")
		}
		return s.createLine(ctx, sessionID, productID, change)
	}

	step, err := resolveStep(line.Snapshot.BaseUnit, change.step)
	if err != nil {
		return nil, err
	}

	total, unit, err := combine(units.New(line.TotalWeight, line.Unit), step, change.subtract)
	if err != nil {
		return nil, err
	}

	capped := false

	if change.stock != stockIgnore {
		product, err := s.liveProduct(ctx, productID)
		if err != nil {
			return nil, err
		}

		if exceedsStock(total, unit, product.StockQty) {
			if change.stock == stockReject {
				return nil, appErrors.OutOfStockError("Not enough stock available").
					WithDetail(fmt.Sprintf("Only %s left", stockLabel(product)))
			}
			total = stockCeiling(unit, product.StockQty)
			capped = true
		}
	}

	if belowMinimum(total, unit, line.Snapshot.MinimumOrder) {
		if err := s.cartRepo.DeleteLine(ctx, line); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil, err
			}
			return nil, appErrors.DatabaseError("Failed to remove cart item").WithError(err)
		}

		return &models.CartMutation{Removed: true, Capped: capped, Message: msgRemoved}, nil
	}

	line.TotalWeight = total.InexactFloat64()
	line.Unit = unit

	if err := s.cartRepo.UpdateLine(ctx, line); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		return nil, appErrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	mutation := &models.CartMutation{Line: line, Capped: capped}
	if capped {
		mutation.Message = msgCapped
	}

	return mutation, nil
}

// createLine seeds a new line from the product's display quantity, or from the requested
// quantity for add-specific.
func (s *cartService) createLine(ctx context.Context, sessionID string, productID primitive.ObjectID, change lineChange) (*models.CartMutation, error) {

	product, err := s.liveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.StockQty <= 0 {
		return nil, appErrors.OutOfStockError("Product is out of stock")
	}

	seed := units.New(product.Weight, product.Unit)
	total, unit := seed.Amount, seed.Unit

	if change.step != nil {
		if !units.Compatible(change.step.Unit, product.Unit) {
			return nil, appErrors.IncompatibleUnitsError("Quantity unit does not match the product")
		}
		// Same normalisation as any other weight arithmetic: grams in, kilograms out.
		total, unit, err = combine(units.Quantity{Amount: decimal.Zero, Unit: change.step.Unit}, *change.step, false)
		if err != nil {
			return nil, err
		}
	}

	capped := false

	if exceedsStock(total, unit, product.StockQty) {
		if change.stock == stockReject {
			return nil, appErrors.OutOfStockError("Not enough stock available").
				WithDetail(fmt.Sprintf("Only %s left", stockLabel(product)))
		}
		total, unit = stockCeiling(weightOrPiece(unit), product.StockQty), weightOrPiece(unit)
		capped = true
	}

	if belowMinimum(total, unit, product.MinimumOrder) {
		return nil, appErrors.BelowMinimumError("Quantity is below the minimum order").
			WithDetail(fmt.Sprintf("Minimum order is %s", minimumLabel(product)))
	}

	line := &models.CartLine{
		SessionID:   sessionID,
		ProductID:   productID,
		TotalWeight: total.InexactFloat64(),
		Unit:        unit,
		Snapshot:    snapshotOf(product),
	}

	if err := s.cartRepo.InsertLine(ctx, line); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	mutation := &models.CartMutation{Line: line, Capped: capped}
	if capped {
		mutation.Message = msgCapped
	}

	return mutation, nil
}

func (s *cartService) liveProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if !product.Available {
		return nil, appErrors.OutOfStockError("Product is currently unavailable")
	}

	return product, nil
}

func validateSpecific(qty units.Quantity) error {

	if !qty.Unit.Valid() {
		return appErrors.ValidationError("Unknown unit")
	}

	if !qty.Amount.IsPositive() {
		return appErrors.ValidationError("Quantity must be greater than zero")
	}

	if qty.Unit == units.Piece && !qty.Amount.IsInteger() {
		return appErrors.ValidationError("Piece quantities must be whole numbers")
	}

	return nil
}

func resolveStep(baseUnit string, step *units.Quantity) (units.Quantity, error) {

	if step != nil {
		return *step, nil
	}

	parsed, err := units.ParseBaseUnit(baseUnit)
	if err != nil {
		return units.Quantity{}, appErrors.InternalError("Product has an invalid base unit").WithError(err)
	}

	return parsed, nil
}

// combine adds or subtracts step from current. Piece totals stay counts; weight totals are
// summed in grams and always come back in kilograms.
func combine(current, step units.Quantity, subtract bool) (decimal.Decimal, units.Unit, error) {

	if !units.Compatible(current.Unit, step.Unit) {
		return decimal.Zero, "", appErrors.IncompatibleUnitsError("Cannot mix piece and weight quantities").WithError(units.ErrIncompatibleUnits)
	}

	if step.Unit == units.Piece {
		if subtract {
			return current.Amount.Sub(step.Amount), units.Piece, nil
		}
		return current.Amount.Add(step.Amount), units.Piece, nil
	}

	currentGrams, err := current.Grams()
	if err != nil {
		return decimal.Zero, "", appErrors.IncompatibleUnitsError("Cannot mix piece and weight quantities").WithError(err)
	}

	stepGrams, err := step.Grams()
	if err != nil {
		return decimal.Zero, "", appErrors.IncompatibleUnitsError("Cannot mix piece and weight quantities").WithError(err)
	}

	grams := currentGrams.Add(stepGrams)
	if subtract {
		grams = currentGrams.Sub(stepGrams)
	}

	return units.GramsToKilograms(grams).Round(6), units.Kilogram, nil
}

// exceedsStock compares against stock held in kilograms for weight products and as a count otherwise.
func exceedsStock(total decimal.Decimal, unit units.Unit, stockQty float64) bool {

	stock := decimal.NewFromFloat(stockQty)

	if unit == units.Piece {
		return total.GreaterThan(stock)
	}

	kg, err := units.Quantity{Amount: total, Unit: unit}.Kilograms()
	if err != nil {
		return true
	}

	return kg.GreaterThan(stock)
}

func stockCeiling(unit units.Unit, stockQty float64) decimal.Decimal {

	stock := decimal.NewFromFloat(stockQty)
	if unit == units.Piece {
		return stock.Floor()
	}

	return stock
}

// belowMinimum uses grams for weight lines and the raw count for piece lines.
func belowMinimum(total decimal.Decimal, unit units.Unit, minimumOrder float64) bool {

	if !total.IsPositive() {
		return true
	}

	minimum := decimal.NewFromFloat(minimumOrder)

	if unit == units.Piece {
		return total.LessThan(minimum)
	}

	grams, err := units.Quantity{Amount: total, Unit: unit}.Grams()
	if err != nil {
		return true
	}

	return grams.LessThan(minimum)
}

func weightOrPiece(unit units.Unit) units.Unit {
	if unit == units.Piece {
		return units.Piece
	}
	return units.Kilogram
}

func snapshotOf(product *models.Product) models.ProductSnapshot {
	return models.ProductSnapshot{
		Name:         product.Name,
		Price:        product.Price,
		Weight:       product.Weight,
		Unit:         product.Unit,
		BaseUnit:     product.BaseUnit,
		MinimumOrder: product.MinimumOrder,
		StockQty:     product.StockQty,
		ImageRef:     productImageRef(product),
	}
}

func productImageRef(product *models.Product) string {
	if len(product.Image) == 0 && product.ImageMime == "" {
		return ""
	}
	return "/api/v1/products/" + product.ID.Hex() + "/image"
}

func stockLabel(product *models.Product) string {
	if product.IsPieceBased() {
		return units.New(product.StockQty, units.Piece).String()
	}
	return units.New(product.StockQty, units.Kilogram).String()
}

func minimumLabel(product *models.Product) string {
	if product.IsPieceBased() {
		return units.New(product.MinimumOrder, units.Piece).String()
	}
	return units.New(product.MinimumOrder, units.Gram).String()
}

func outcome(m *models.CartMutation) string {
	switch {
	case m.Removed:
		return "removed"
	case m.Capped:
		return "capped"
	default:
		return "updated"
	}
}
