package service

import (
	"errors"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

// AddressInput carries the writable address fields.
type AddressInput struct {
	Label     string
	Recipient string
	Phone     string
	ZipCode   string
	Street    string
	City      string
	State     string
	IsDefault bool
}

type AddressService interface {
	ListAddresses(userID uint) ([]model.Address, error)
	GetAddressByID(userID, addressID uint) (*model.Address, error)
	CreateAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	SetDefaultAddress(userID, addressID uint) error
	DeleteAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) ListAddresses(userID uint) ([]model.Address, error) {
	logger.Debug("Listing addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to list addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return addresses, nil
}

func (s *addressService) GetAddressByID(userID, addressID uint) (*model.Address, error) {
	return s.ownedAddress(userID, addressID)
}

func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
		"label":   input.Label,
	})

	address := &model.Address{
		UserID:    userID,
		Label:     input.Label,
		Recipient: input.Recipient,
		Phone:     input.Phone,
		ZipCode:   input.ZipCode,
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		IsDefault: input.IsDefault,
	}

	// The first address a user saves becomes the default
	existing, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if address.IsDefault && len(existing) > 0 {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
	})
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"address_id": addressID,
		"user_id":    userID,
	})

	address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.Label != "" {
		address.Label = input.Label
	}
	if input.Recipient != "" {
		address.Recipient = input.Recipient
	}
	if input.Phone != "" {
		address.Phone = input.Phone
	}
	if input.ZipCode != "" {
		address.ZipCode = input.ZipCode
	}
	if input.Street != "" {
		address.Street = input.Street
	}
	if input.City != "" {
		address.City = input.City
	}
	if input.State != "" {
		address.State = input.State
	}

	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.ownedAddress(userID, addressID); err != nil {
		return err
	}

	return s.addressRepo.SetDefault(userID, addressID)
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.ownedAddress(userID, addressID); err != nil {
		return err
	}

	return s.addressRepo.Delete(addressID)
}

func (s *addressService) ownedAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Address access denied: ownership mismatch", map[string]interface{}{
			"address_id": addressID,
			"user_id":    userID,
			"owner_id":   address.UserID,
		})
		return nil, ErrAddressNotFound
	}
	return address, nil
}
