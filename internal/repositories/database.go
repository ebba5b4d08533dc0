package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicate         = errors.New("duplicate document")
	ErrVersionConflict   = errors.New("version conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	collectionDeviceBlocks  = "device_blocks"
	collectionCartLines     = "cart_lines"
	collectionProducts      = "products"
	collectionCategories    = "categories"
	collectionUsers         = "users"
	collectionAdmins        = "admins"
	collectionAddresses     = "addresses"
	collectionOffers        = "offers"
	collectionOrders        = "orders"
	collectionPayments      = "payments"
	collectionNotifications = "notifications"
)

type Repository struct {
	Client *mongo.Client
	DB     *mongo.Database

	Device       DeviceRepository
	Cart         CartRepository
	Product      ProductRepository
	Category     CategoryRepository
	User         UserRepository
	Admin        AdminRepository
	Address      AddressRepository
	Offer        OfferRepository
	Order        OrderRepository
	Payment      PaymentRepository
	Notification NotificationRepository
}

func ConnectMongoDB(ctx context.Context, cfg *config.Mongo) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

func New(ctx context.Context, cfg *config.Config) (*Repository, error) {
	client, err := ConnectMongoDB(ctx, &cfg.Mongo)
	if err != nil {
		return nil, err
	}

	db := client.Database(cfg.Mongo.Database)

	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	repos := NewFromDatabase(db)
	repos.Client = client

	slog.Info("✅ Successfully connected to MongoDB", slog.String("database", cfg.Mongo.Database))

	return repos, nil
}

func NewFromDatabase(db *mongo.Database) *Repository {
	return &Repository{
		DB:           db,
		Device:       NewDeviceRepo(db),
		Cart:         NewCartRepo(db),
		Product:      NewProductRepo(db),
		Category:     NewCategoryRepo(db),
		User:         NewUserRepo(db),
		Admin:        NewAdminRepo(db),
		Address:      NewAddressRepo(db),
		Offer:        NewOfferRepo(db),
		Order:        NewOrderRepo(db),
		Payment:      NewPaymentRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// EnsureIndexes creates the unique and TTL indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		collectionDeviceBlocks: {
			{Keys: bson.D{{Key: "ip_address", Value: 1}}, Options: options.Index().SetUnique(true)},
			// expired blocks are swept by the server once blocked_until passes
			{Keys: bson.D{{Key: "blocked_until", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
		collectionCartLines: {
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionProducts: {
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "available", Value: 1}}},
		},
		collectionCategories: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionUsers: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionAdmins: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionAddresses: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionOffers: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionOrders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collectionPayments: {
			{Keys: bson.D{{Key: "payment_intent_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionNotifications: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r.Client == nil {
		return nil
	}

	return r.Client.Disconnect(ctx)
}

// paging converts page/pageSize into skip/limit find options.
func paging(page, pageSize int) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	return options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	return fmt.Errorf("%s: %w", msg, err)
}

func duplicateOr(err error, msg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}

	return fmt.Errorf("%s: %w", msg, err)
}
