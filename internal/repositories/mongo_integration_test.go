package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestDB(t *testing.T) *repository.Repository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}

	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := repository.ConnectMongoDB(ctx, &config.Mongo{
		URI:            uri,
		MaxPoolSize:    10,
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)

	db := client.Database("fishshop_test")
	require.NoError(t, repository.EnsureIndexes(ctx, db))

	repos := repository.NewFromDatabase(db)
	repos.Client = client

	t.Cleanup(func() { _ = repos.Close(ctx) })

	return repos
}

func TestDeviceRepository_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	ip := "203.0.113.7"

	t.Run("Find missing IP", func(t *testing.T) {
		block, err := repos.Device.FindByIP(ctx, ip)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, block)
	})

	t.Run("Increment upserts and counts", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)

		first, err := repos.Device.IncrementAttempt(ctx, ip, now, 3, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, first.ResendCount)

		second, err := repos.Device.IncrementAttempt(ctx, ip, now.Add(time.Second), 3, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, second.ResendCount)
		assert.Nil(t, second.BlockedUntil)
		assert.Equal(t, first.ID, second.ID)
		assert.WithinDuration(t, now.Add(time.Second), second.LastAttempt, time.Millisecond)
	})

	t.Run("Block then reset", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		until := now.Add(time.Hour)

		third, err := repos.Device.IncrementAttempt(ctx, ip, now, 3, until)
		require.NoError(t, err)
		assert.Equal(t, 3, third.ResendCount)
		require.NotNil(t, third.BlockedUntil)
		assert.WithinDuration(t, until, *third.BlockedUntil, time.Millisecond)

		fourth, err := repos.Device.IncrementAttempt(ctx, ip, now.Add(time.Minute), 3, until.Add(time.Minute))
		require.NoError(t, err)
		require.NotNil(t, fourth.BlockedUntil)
		assert.WithinDuration(t, until, *fourth.BlockedUntil, time.Millisecond, "active block is not extended")

		block, err := repos.Device.FindByIP(ctx, ip)
		require.NoError(t, err)
		require.NotNil(t, block.BlockedUntil)

		require.NoError(t, repos.Device.Reset(ctx, ip))

		block, err = repos.Device.FindByIP(ctx, ip)
		require.NoError(t, err)
		assert.Nil(t, block.BlockedUntil)
		assert.Equal(t, 0, block.ResendCount)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repos.Device.Delete(ctx, ip))

		_, err := repos.Device.FindByIP(ctx, ip)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCartRepository_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	session := "session-1"
	productID := primitive.NewObjectID()

	line := &models.CartLine{
		SessionID:   session,
		ProductID:   productID,
		TotalWeight: 250,
		Unit:        units.Gram,
		Snapshot:    models.ProductSnapshot{Name: "Seer Fish", BaseUnit: "250g", MinimumOrder: 250},
	}

	t.Run("Insert and duplicate", func(t *testing.T) {
		require.NoError(t, repos.Cart.InsertLine(ctx, line))
		assert.False(t, line.ID.IsZero())
		assert.Equal(t, int64(1), line.Version)

		dup := &models.CartLine{SessionID: session, ProductID: productID, TotalWeight: 1, Unit: units.Gram}
		assert.ErrorIs(t, repos.Cart.InsertLine(ctx, dup), repository.ErrDuplicate)
	})

	t.Run("Compare and swap update", func(t *testing.T) {
		stale := *line

		line.TotalWeight = 0.5
		line.Unit = units.Kilogram
		require.NoError(t, repos.Cart.UpdateLine(ctx, line))
		assert.Equal(t, int64(2), line.Version)

		stale.TotalWeight = 0.75
		assert.ErrorIs(t, repos.Cart.UpdateLine(ctx, &stale), repository.ErrVersionConflict)

		stored, err := repos.Cart.FindLine(ctx, session, productID)
		require.NoError(t, err)
		assert.Equal(t, 0.5, stored.TotalWeight)
		assert.Equal(t, units.Kilogram, stored.Unit)
	})

	t.Run("Count, list and clear", func(t *testing.T) {
		other := &models.CartLine{SessionID: session, ProductID: primitive.NewObjectID(), TotalWeight: 2, Unit: units.Piece}
		require.NoError(t, repos.Cart.InsertLine(ctx, other))

		count, err := repos.Cart.CountLines(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		lines, err := repos.Cart.ListLines(ctx, session)
		require.NoError(t, err)
		assert.Len(t, lines, 2)

		removed, err := repos.Cart.DeleteByProduct(ctx, session, other.ProductID)
		require.NoError(t, err)
		assert.True(t, removed)

		deleted, err := repos.Cart.DeleteSession(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})
}

func TestProductRepository_ReserveStock_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	product := &models.Product{
		Name:      "Prawns",
		Price:     600,
		Weight:    500,
		Unit:      units.Gram,
		BaseUnit:  "250g",
		StockQty:  2,
		Available: true,
	}
	require.NoError(t, repos.Product.CreateProduct(ctx, product))

	require.NoError(t, repos.Product.ReserveStock(ctx, product.ID, 1.5))
	assert.ErrorIs(t, repos.Product.ReserveStock(ctx, product.ID, 1), repository.ErrInsufficientStock)

	require.NoError(t, repos.Product.ReleaseStock(ctx, product.ID, 1.5))

	stored, err := repos.Product.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stored.StockQty, 1e-9)
}

func TestAddressRepository_SetDefault_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	first := &models.Address{UserID: userID, Name: "Home", Pincode: "682001", IsDefault: true}
	second := &models.Address{UserID: userID, Name: "Work", Pincode: "682002"}
	require.NoError(t, repos.Address.CreateAddress(ctx, first))
	require.NoError(t, repos.Address.CreateAddress(ctx, second))

	require.NoError(t, repos.Address.SetDefault(ctx, userID, second.ID))

	addresses, err := repos.Address.ListAddresses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, second.ID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
	assert.False(t, addresses[1].IsDefault)
}
