package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v81"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ThrottleService struct {
	mock.Mock
}

func (m *ThrottleService) CheckStatus(ctx context.Context, ip string) (*models.DeviceStatus, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceStatus), args.Error(1)
}

func (m *ThrottleService) RecordAttempt(ctx context.Context, ip string) (int, error) {
	args := m.Called(ctx, ip)
	return args.Int(0), args.Error(1)
}

func (m *ThrottleService) Clear(ctx context.Context, ip string) error {
	return m.Called(ctx, ip).Error(0)
}

type AuthService struct {
	mock.Mock
}

func (m *AuthService) SendOTP(ctx context.Context, phone, ip string) (*models.SendOTPResponse, error) {
	args := m.Called(ctx, phone, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendOTPResponse), args.Error(1)
}

func (m *AuthService) VerifyOTP(ctx context.Context, phone, code, ip string) (*models.AuthResponse, error) {
	args := m.Called(ctx, phone, code, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *AuthService) ValidateSession(ctx context.Context, userID, sessionToken string) error {
	return m.Called(ctx, userID, sessionToken).Error(0)
}

func (m *AuthService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type AdminService struct {
	mock.Mock
}

func (m *AdminService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *AdminService) Bootstrap(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) mutation(args mock.Arguments) (*models.CartMutation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartMutation), args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) AddToCart(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error) {
	return m.mutation(m.Called(ctx, sessionID, productID))
}

func (m *CartService) Increment(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error) {
	return m.mutation(m.Called(ctx, sessionID, productID))
}

func (m *CartService) Decrement(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error) {
	return m.mutation(m.Called(ctx, sessionID, productID))
}

func (m *CartService) AddSpecific(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error) {
	return m.mutation(m.Called(ctx, sessionID, productID, qty))
}

func (m *CartService) RemoveSpecific(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error) {
	return m.mutation(m.Called(ctx, sessionID, productID, qty))
}

func (m *CartService) RemoveLine(ctx context.Context, sessionID string, productID primitive.ObjectID) error {
	return m.Called(ctx, sessionID, productID).Error(0)
}

func (m *CartService) ClearCart(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartService) CountLines(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *CatalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *CatalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CatalogService) SetImage(ctx context.Context, id primitive.ObjectID, data []byte) (*models.Product, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) GetImage(ctx context.Context, id primitive.ObjectID) ([]byte, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type AddressService struct {
	mock.Mock
}

func (m *AddressService) CreateAddress(ctx context.Context, userID primitive.ObjectID, req *models.CreateAddressRequest) (*models.Address, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *AddressService) GetAddress(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *AddressService) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]*models.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Address), args.Error(1)
}

func (m *AddressService) UpdateAddress(ctx context.Context, userID, id primitive.ObjectID, req *models.UpdateAddressRequest) (*models.Address, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *AddressService) DeleteAddress(ctx context.Context, userID, id primitive.ObjectID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *AddressService) SetDefault(ctx context.Context, userID, id primitive.ObjectID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *AddressService) VerifyPincode(ctx context.Context, pin string) (*models.PincodeInfo, error) {
	args := m.Called(ctx, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PincodeInfo), args.Error(1)
}

type OfferService struct {
	mock.Mock
}

func (m *OfferService) CreateOffer(ctx context.Context, req *models.CreateOfferRequest) (*models.Offer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *OfferService) ListOffers(ctx context.Context, activeOnly bool) ([]*models.Offer, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Offer), args.Error(1)
}

func (m *OfferService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *OfferService) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Offer, decimal.Decimal, error) {
	args := m.Called(ctx, code, subtotal)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*models.Offer), args.Get(1).(decimal.Decimal), args.Error(2)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, sessionID string, req *models.PlaceOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderService) CancelOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ShareURL(ctx context.Context, userID, id primitive.ObjectID, provider string) (string, error) {
	args := m.Called(ctx, userID, id, provider)
	return args.String(0), args.Error(1)
}

func (m *OrderService) ListAllOrders(ctx context.Context, status *models.OrderStatus, page, pageSize int) ([]*models.Order, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type PaymentService struct {
	mock.Mock
}

func (m *PaymentService) StartPayment(ctx context.Context, order *models.Order) (*models.Payment, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentService) CreatePayment(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Payment, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentService) GetPayment(ctx context.Context, userID, id primitive.ObjectID) (*models.Payment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentService) ListPayments(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Payment, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(ctx, payload, signature)
	return args.Get(0).(stripe.Event), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) NotifyOrderPlaced(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *NotificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.Notification, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *NotificationService) ListNotifications(ctx context.Context, page, pageSize int) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}
