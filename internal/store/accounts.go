package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parking-slot-backend/internal/model"
)

// CreateUser persists a new account.
func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

// GetUserByEmail fetches an account by email. Returns
// gorm.ErrRecordNotFound when the account does not exist.
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return model.User{}, err
	}
	return user, nil
}

// CreateVehicle registers a plate under its owning account.
func (s *gormStore) CreateVehicle(ctx context.Context, vehicle *model.Vehicle) error {
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle %s: %w", vehicle.Plate, err)
	}
	return nil
}

// ListVehiclesByOwner returns all vehicles registered by an account.
func (s *gormStore) ListVehiclesByOwner(ctx context.Context, ownerID int64) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("plate asc").
		Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles for user %d: %w", ownerID, err)
	}
	return vehicles, nil
}

// LookupVehicleOwner maps a plate to its owning account.
func (s *gormStore) LookupVehicleOwner(ctx context.Context, plate string) (int64, bool, error) {
	var vehicle model.Vehicle
	err := s.db.WithContext(ctx).Where("plate = ?", plate).First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up owner of plate %s: %w", plate, err)
	}
	return vehicle.OwnerID, true, nil
}

// DeleteVehicle removes a plate registration. The delete is scoped to the
// owner so one user cannot unregister another user's vehicle.
func (s *gormStore) DeleteVehicle(ctx context.Context, ownerID int64, plate string) error {
	res := s.db.WithContext(ctx).
		Where("owner_id = ? AND plate = ?", ownerID, plate).
		Delete(&model.Vehicle{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", plate, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoSuchVehicle
	}
	return nil
}
