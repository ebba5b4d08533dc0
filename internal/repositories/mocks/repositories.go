package mocks

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeviceRepository struct {
	mock.Mock
}

func (m *DeviceRepository) FindByIP(ctx context.Context, ip string) (*models.DeviceBlock, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceBlock), args.Error(1)
}

func (m *DeviceRepository) IncrementAttempt(ctx context.Context, ip string, at time.Time, blockAt int, until time.Time) (*models.DeviceBlock, error) {
	args := m.Called(ctx, ip, at, blockAt, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceBlock), args.Error(1)
}

func (m *DeviceRepository) Reset(ctx context.Context, ip string) error {
	return m.Called(ctx, ip).Error(0)
}

func (m *DeviceRepository) Delete(ctx context.Context, ip string) error {
	return m.Called(ctx, ip).Error(0)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) FindLine(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartLine, error) {
	args := m.Called(ctx, sessionID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *CartRepository) ListLines(ctx context.Context, sessionID string) ([]*models.CartLine, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CartLine), args.Error(1)
}

func (m *CartRepository) InsertLine(ctx context.Context, line *models.CartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *CartRepository) UpdateLine(ctx context.Context, line *models.CartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *CartRepository) DeleteLine(ctx context.Context, line *models.CartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *CartRepository) DeleteByProduct(ctx context.Context, sessionID string, productID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *CartRepository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartRepository) CountLines(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepository) SetImage(ctx context.Context, id primitive.ObjectID, data []byte, mime string) error {
	return m.Called(ctx, id, data, mime).Error(0)
}

func (m *ProductRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty float64) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *ProductRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty float64) error {
	return m.Called(ctx, id, qty).Error(0)
}

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *CategoryRepository) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) SetSessionToken(ctx context.Context, id primitive.ObjectID, token string, loginAt *time.Time) error {
	return m.Called(ctx, id, token, loginAt).Error(0)
}

type AdminRepository struct {
	mock.Mock
}

func (m *AdminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *AdminRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *AdminRepository) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type AddressRepository struct {
	mock.Mock
}

func (m *AddressRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *AddressRepository) GetAddress(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *AddressRepository) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]*models.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Address), args.Error(1)
}

func (m *AddressRepository) UpdateAddress(ctx context.Context, address *models.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *AddressRepository) DeleteAddress(ctx context.Context, userID, id primitive.ObjectID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *AddressRepository) SetDefault(ctx context.Context, userID, id primitive.ObjectID) error {
	return m.Called(ctx, userID, id).Error(0)
}

type OfferRepository struct {
	mock.Mock
}

func (m *OfferRepository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *OfferRepository) GetOfferByCode(ctx context.Context, code string) (*models.Offer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *OfferRepository) ListOffers(ctx context.Context, activeAt *time.Time) ([]*models.Offer, error) {
	args := m.Called(ctx, activeAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Offer), args.Error(1)
}

func (m *OfferRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) ListOrders(ctx context.Context, status *models.OrderStatus, page, pageSize int) ([]*models.Order, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *OrderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, intentID string) error {
	return m.Called(ctx, id, status, intentID).Error(0)
}

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *PaymentRepository) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepository) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepository) ListPaymentsByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Payment, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *PaymentRepository) UpdatePaymentStatus(ctx context.Context, intentID string, status models.PaymentStatus, reason string) error {
	return m.Called(ctx, intentID, status, reason).Error(0)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *NotificationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.NotificationStatus, errorMsg string) error {
	return m.Called(ctx, id, status, errorMsg).Error(0)
}

func (m *NotificationRepository) ListNotifications(ctx context.Context, page, pageSize int) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}

type OTPRepository struct {
	mock.Mock
}

func (m *OTPRepository) SaveOTP(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	return m.Called(ctx, phone, codeHash, ttl).Error(0)
}

func (m *OTPRepository) GetOTP(ctx context.Context, phone string) (*models.OTPRecord, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OTPRecord), args.Error(1)
}

func (m *OTPRepository) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	args := m.Called(ctx, phone)
	return args.Int(0), args.Error(1)
}

func (m *OTPRepository) DeleteOTP(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

type LoginLimiter struct {
	mock.Mock
}

func (m *LoginLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *LoginLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
