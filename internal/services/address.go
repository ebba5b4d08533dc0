package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/cache"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/pincode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Postal data barely changes; a day keeps lookups off the public API.
const pincodeCacheTTL = 24 * time.Hour

type AddressService interface {
	CreateAddress(ctx context.Context, userID primitive.ObjectID, req *models.CreateAddressRequest) (*models.Address, error)
	GetAddress(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error)
	ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]*models.Address, error)
	UpdateAddress(ctx context.Context, userID, id primitive.ObjectID, req *models.UpdateAddressRequest) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, id primitive.ObjectID) error
	SetDefault(ctx context.Context, userID, id primitive.ObjectID) error
	VerifyPincode(ctx context.Context, pin string) (*models.PincodeInfo, error)
}

type addressService struct {
	repo        repository.AddressRepository
	lookup      pincode.Client
	cache       cache.Cache
	serviceable []string
}

// NewAddressService restricts delivery to the serviceable pincodes. An empty list serves everywhere.
func NewAddressService(repo repository.AddressRepository, lookup pincode.Client, c cache.Cache, serviceable []string) AddressService {
	return &addressService{repo: repo, lookup: lookup, cache: c, serviceable: serviceable}
}

func (s *addressService) CreateAddress(ctx context.Context, userID primitive.ObjectID, req *models.CreateAddressRequest) (*models.Address, error) {

	info, err := s.deliverable(ctx, req.Pincode)
	if err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:   userID,
		Name:     utils.Sanitize(req.Name),
		Phone:    utils.NormalizePhone(req.Phone),
		Line1:    utils.Sanitize(req.Line1),
		Line2:    utils.Sanitize(req.Line2),
		Landmark: utils.Sanitize(req.Landmark),
		City:     utils.Sanitize(req.City),
		District: info.District,
		State:    info.State,
		Pincode:  req.Pincode,
	}

	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, appErrors.DatabaseError("Failed to save address").WithError(err)
	}

	if req.IsDefault {
		if err := s.repo.SetDefault(ctx, userID, address.ID); err != nil {
			return nil, appErrors.DatabaseError("Failed to set default address").WithError(err)
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *addressService) GetAddress(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error) {

	address, err := s.repo.GetAddress(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Address not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch address").WithError(err)
	}

	return address, nil
}

func (s *addressService) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]*models.Address, error) {

	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch addresses").WithError(err)
	}

	return addresses, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, userID, id primitive.ObjectID, req *models.UpdateAddressRequest) (*models.Address, error) {

	address, err := s.GetAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Pincode != nil && *req.Pincode != address.Pincode {
		info, err := s.deliverable(ctx, *req.Pincode)
		if err != nil {
			return nil, err
		}
		address.Pincode = *req.Pincode
		address.District = info.District
		address.State = info.State
	}

	if req.Name != nil {
		address.Name = utils.Sanitize(*req.Name)
	}
	if req.Phone != nil {
		address.Phone = utils.NormalizePhone(*req.Phone)
	}
	if req.Line1 != nil {
		address.Line1 = utils.Sanitize(*req.Line1)
	}
	if req.Line2 != nil {
		address.Line2 = utils.Sanitize(*req.Line2)
	}
	if req.Landmark != nil {
		address.Landmark = utils.Sanitize(*req.Landmark)
	}
	if req.City != nil {
		address.City = utils.Sanitize(*req.City)
	}

	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Address not found")
		}
		return nil, appErrors.DatabaseError("Failed to update address").WithError(err)
	}

	return address, nil
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, id primitive.ObjectID) error {

	if err := s.repo.DeleteAddress(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("Address not found")
		}
		return appErrors.DatabaseError("Failed to delete address").WithError(err)
	}

	return nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, id primitive.ObjectID) error {

	if err := s.repo.SetDefault(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("Address not found")
		}
		return appErrors.DatabaseError("Failed to set default address").WithError(err)
	}

	return nil
}

func (s *addressService) VerifyPincode(ctx context.Context, pin string) (*models.PincodeInfo, error) {

	if !utils.IsValidPincode(pin) {
		return nil, appErrors.AddValidationError("pincode", "must be a 6 digit pincode")
	}

	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.PincodeKeyPrefix, pin)

	var info models.PincodeInfo
	found, err := s.cache.Get(ctx, key, &info)
	if err != nil {
		logger.Warn("Pincode cache read failed", slog.String("error", err.Error()))
	}

	if !found {
		fetched, err := s.lookup.Lookup(ctx, pin)
		if err != nil {
			if errors.Is(err, pincode.ErrUnknownPincode) {
				return nil, appErrors.AddValidationError("pincode", "pincode does not exist")
			}
			return nil, appErrors.ThirdPartyError("Pincode lookup is unavailable").WithError(err)
		}

		info = *fetched
		if err := s.cache.Set(ctx, key, info, pincodeCacheTTL); err != nil {
			logger.Warn("Pincode cache write failed", slog.String("error", err.Error()))
		}
	}

	info.Serviceable = len(s.serviceable) == 0 || slices.Contains(s.serviceable, pin)

	return &info, nil
}

func (s *addressService) deliverable(ctx context.Context, pin string) (*models.PincodeInfo, error) {

	info, err := s.VerifyPincode(ctx, pin)
	if err != nil {
		return nil, err
	}

	if !info.Serviceable {
		return nil, appErrors.ValidationError("We do not deliver to this pincode yet").WithDetail(pin)
	}

	return info, nil
}
