package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"parking-slot-backend/internal/model"
)

// ErrSlotStateChanged is returned by TransitionSlot when the slot's state no
// longer matches the expected state at write time, meaning a concurrent
// caller won the race.
var ErrSlotStateChanged = errors.New("slot state changed concurrently")

// ErrNoSuchVehicle is returned when a vehicle operation targets a plate the
// owner has not registered.
var ErrNoSuchVehicle = errors.New("no such vehicle")

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Slot registry
	ProvisionSlots(ctx context.Context, count int, namePrefix string) error
	ListSlots(ctx context.Context) ([]model.Slot, error)
	GetSlot(ctx context.Context, slotID int64) (model.Slot, bool, error)
	FindSlotByPlate(ctx context.Context, plate string, excludeSlotID int64) (model.Slot, bool, error)
	TransitionSlot(ctx context.Context, slotID int64, fromOccupied bool, fromPlate string, toOccupied bool, toPlate string) error
	ResetSlots(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	// Vehicle registry
	CreateVehicle(ctx context.Context, vehicle *model.Vehicle) error
	ListVehiclesByOwner(ctx context.Context, ownerID int64) ([]model.Vehicle, error)
	LookupVehicleOwner(ctx context.Context, plate string) (int64, bool, error)
	DeleteVehicle(ctx context.Context, ownerID int64, plate string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handler-level queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ProvisionSlots creates the fixed slot pool on first bring-up. If any slots
// already exist the call is a no-op; it never duplicates or resets existing
// slots.
func (s *gormStore) ProvisionSlots(ctx context.Context, count int, namePrefix string) error {
	if count <= 0 {
		return fmt.Errorf("invalid slot count %d", count)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Slot{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count slots: %w", err)
		}
		if existing > 0 {
			log.Printf("Slot pool already provisioned (%d slots); skipping", existing)
			return nil
		}

		slots := make([]model.Slot, count)
		for i := range slots {
			slots[i] = model.Slot{
				ID:          int64(i + 1),
				DisplayName: fmt.Sprintf("%s %d", namePrefix, i+1),
			}
		}

		log.Printf("Provisioning %d slots...", count)
		if err := tx.Create(&slots).Error; err != nil {
			return fmt.Errorf("failed to provision slots: %w", err)
		}
		return nil
	})
}

// ListSlots returns a total snapshot of the pool ordered by display name.
func (s *gormStore) ListSlots(ctx context.Context) ([]model.Slot, error) {
	var slots []model.Slot
	if err := s.db.WithContext(ctx).Order("display_name asc").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// GetSlot fetches a single slot by identifier.
func (s *gormStore) GetSlot(ctx context.Context, slotID int64) (model.Slot, bool, error) {
	var slot model.Slot
	err := s.db.WithContext(ctx).First(&slot, slotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Slot{}, false, nil
	}
	if err != nil {
		return model.Slot{}, false, fmt.Errorf("failed to fetch slot %d: %w", slotID, err)
	}
	return slot, true, nil
}

// FindSlotByPlate finds any slot other than excludeSlotID currently occupied
// by the given plate. Used for global single-occupancy conflict detection.
func (s *gormStore) FindSlotByPlate(ctx context.Context, plate string, excludeSlotID int64) (model.Slot, bool, error) {
	var slot model.Slot
	err := s.db.WithContext(ctx).
		Where("occupied = ? AND plate = ? AND id <> ?", true, plate, excludeSlotID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Slot{}, false, nil
	}
	if err != nil {
		return model.Slot{}, false, fmt.Errorf("failed to look up occupant of plate %s: %w", plate, err)
	}
	return slot, true, nil
}

// TransitionSlot is the sole mutator of slot state. The expected-state check
// and the write happen in one conditional UPDATE, so of two racing callers
// exactly one sees its expected state and wins; the other gets
// ErrSlotStateChanged. The expected plate is part of the condition so a
// release cannot free a slot that was concurrently reassigned.
func (s *gormStore) TransitionSlot(ctx context.Context, slotID int64, fromOccupied bool, fromPlate string, toOccupied bool, toPlate string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("id = ? AND occupied = ? AND plate = ?", slotID, fromOccupied, fromPlate).
		Updates(map[string]interface{}{"occupied": toOccupied, "plate": toPlate})
	if res.Error != nil {
		return fmt.Errorf("failed to transition slot %d: %w", slotID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSlotStateChanged
	}
	return nil
}

// ResetSlots clears every slot back to free/unbound in one statement.
// Operator-only; not part of normal request flow.
func (s *gormStore) ResetSlots(ctx context.Context) error {
	res := s.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("1 = 1").
		Updates(map[string]interface{}{"occupied": false, "plate": ""})
	if res.Error != nil {
		return fmt.Errorf("failed to reset slots: %w", res.Error)
	}
	log.Printf("Reset %d slots to free", res.RowsAffected)
	return nil
}
