package service_test

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/pincode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubLookup struct {
	calls int
	err   error
}

func (s *stubLookup) Lookup(_ context.Context, pin string) (*models.PincodeInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.PincodeInfo{Pincode: pin, District: "Kolkata", State: "West Bengal", PostOffices: []string{"Park Street"}}, nil
}

func TestAddressService_CreateAddress(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	req := func(pin string, isDefault bool) *models.CreateAddressRequest {
		return &models.CreateAddressRequest{
			Name:      "Ananya",
			Phone:     "+919876543210",
			Line1:     "12 <i>Park</i> Street",
			City:      "Kolkata",
			Pincode:   pin,
			IsDefault: isDefault,
		}
	}

	t.Run("Success - District and state come from the lookup", func(t *testing.T) {
		// Arrange
		repo := new(mocks.AddressRepository)
		addressID := primitive.NewObjectID()
		repo.On("CreateAddress", ctx, mock.AnythingOfType("*models.Address")).
			Run(func(args mock.Arguments) { args.Get(1).(*models.Address).ID = addressID }).
			Return(nil)
		repo.On("SetDefault", ctx, userID, addressID).Return(nil)
		svc := service.NewAddressService(repo, &stubLookup{}, newMemoryCache(), []string{"700016"})

		// Act
		address, err := svc.CreateAddress(ctx, userID, req("700016", true))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Kolkata", address.District)
		assert.Equal(t, "West Bengal", address.State)
		assert.Equal(t, "9876543210", address.Phone)
		assert.Equal(t, "12 Park Street", address.Line1)
		assert.True(t, address.IsDefault)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Outside delivery area", func(t *testing.T) {
		// Arrange
		repo := new(mocks.AddressRepository)
		svc := service.NewAddressService(repo, &stubLookup{}, newMemoryCache(), []string{"700016"})

		// Act
		_, err := svc.CreateAddress(ctx, userID, req("110001", false))

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeValidation)
		repo.AssertNotCalled(t, "CreateAddress", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Lookup service down", func(t *testing.T) {
		// Arrange
		repo := new(mocks.AddressRepository)
		svc := service.NewAddressService(repo, &stubLookup{err: errors.New("timeout")}, newMemoryCache(), nil)

		// Act
		_, err := svc.CreateAddress(ctx, userID, req("700016", false))

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeThirdPartyError)
	})
}

func TestAddressService_VerifyPincode(t *testing.T) {
	ctx := context.Background()

	t.Run("Lookup result is cached", func(t *testing.T) {
		// Arrange
		lookup := &stubLookup{}
		svc := service.NewAddressService(new(mocks.AddressRepository), lookup, newMemoryCache(), nil)

		// Act
		first, err1 := svc.VerifyPincode(ctx, "700016")
		second, err2 := svc.VerifyPincode(ctx, "700016")

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.True(t, first.Serviceable, "no list means every pincode is served")
		assert.Equal(t, first, second)
		assert.Equal(t, 1, lookup.calls)
	})

	t.Run("Unknown pincode", func(t *testing.T) {
		// Arrange
		svc := service.NewAddressService(new(mocks.AddressRepository), &stubLookup{err: pincode.ErrUnknownPincode}, newMemoryCache(), nil)

		// Act
		_, err := svc.VerifyPincode(ctx, "999999")

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Malformed pincode never reaches the lookup", func(t *testing.T) {
		// Arrange
		lookup := &stubLookup{}
		svc := service.NewAddressService(new(mocks.AddressRepository), lookup, newMemoryCache(), nil)

		// Act
		_, err := svc.VerifyPincode(ctx, "01234")

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeValidation)
		assert.Zero(t, lookup.calls)
	})
}

func TestAddressService_OwnerScoped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.AddressRepository)
	userID, id := primitive.NewObjectID(), primitive.NewObjectID()
	repo.On("GetAddress", ctx, userID, id).Return(nil, repository.ErrNotFound)
	repo.On("DeleteAddress", ctx, userID, id).Return(repository.ErrNotFound)
	repo.On("SetDefault", ctx, userID, id).Return(nil)
	svc := service.NewAddressService(repo, &stubLookup{}, newMemoryCache(), nil)

	// Act
	_, getErr := svc.GetAddress(ctx, userID, id)
	deleteErr := svc.DeleteAddress(ctx, userID, id)
	defaultErr := svc.SetDefault(ctx, userID, id)

	// Assert
	requireAppCode(t, getErr, appErrors.ErrCodeNotFound)
	requireAppCode(t, deleteErr, appErrors.ErrCodeNotFound)
	assert.NoError(t, defaultErr)
}
