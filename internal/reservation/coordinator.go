package reservation

import (
	"context"
	"errors"
	"fmt"

	"parking-slot-backend/internal/model"
	"parking-slot-backend/internal/store"
)

// SlotStore is the slice of the slot registry the coordinator needs.
// Satisfied by store.Store.
type SlotStore interface {
	GetSlot(ctx context.Context, slotID int64) (model.Slot, bool, error)
	FindSlotByPlate(ctx context.Context, plate string, excludeSlotID int64) (model.Slot, bool, error)
	TransitionSlot(ctx context.Context, slotID int64, fromOccupied bool, fromPlate string, toOccupied bool, toPlate string) error
}

// Coordinator orchestrates reserve and release requests: ownership
// verification, cross-slot conflict detection, and the atomic state
// transition on the target slot.
//
// The validation chain runs on a possibly-stale snapshot; only the final
// conditional transition is atomic. A lost race is re-derived into the same
// outcome a stale read would have produced, never retried silently.
type Coordinator struct {
	slots    SlotStore
	verifier *Verifier
}

// NewCoordinator wires the coordinator to its slot registry and ownership
// verifier.
func NewCoordinator(slots SlotStore, verifier *Verifier) *Coordinator {
	return &Coordinator{slots: slots, verifier: verifier}
}

// Reserve binds the caller's vehicle to the target slot. The check order is
// fixed — ownership, global plate conflict, slot existence, slot occupancy —
// because each step yields a distinct, user-actionable error.
func (c *Coordinator) Reserve(ctx context.Context, userID int64, plate string, slotID int64) (model.Slot, error) {
	switch result, err := c.verifier.Verify(ctx, userID, plate); {
	case err != nil:
		return model.Slot{}, err
	case result == Unregistered:
		return model.Slot{}, fmt.Errorf("plate %s: %w", plate, ErrVehicleNotFound)
	case result == OwnedByOther:
		return model.Slot{}, fmt.Errorf("plate %s: %w", plate, ErrOwnershipConflict)
	}

	if elsewhere, found, err := c.slots.FindSlotByPlate(ctx, plate, slotID); err != nil {
		return model.Slot{}, err
	} else if found {
		return model.Slot{}, fmt.Errorf("plate %s is parked in %s: %w", plate, elsewhere.DisplayName, ErrPlateAlreadyParked)
	}

	slot, found, err := c.slots.GetSlot(ctx, slotID)
	if err != nil {
		return model.Slot{}, err
	}
	if !found {
		return model.Slot{}, fmt.Errorf("slot %d: %w", slotID, ErrSlotNotFound)
	}

	if slot.Occupied {
		if slot.Plate == plate {
			return model.Slot{}, fmt.Errorf("slot %s already holds plate %s: %w", slot.DisplayName, plate, ErrSlotAlreadyYours)
		}
		return model.Slot{}, fmt.Errorf("slot %s: %w", slot.DisplayName, ErrSlotOccupied)
	}

	if err := c.slots.TransitionSlot(ctx, slotID, false, "", true, plate); err != nil {
		if errors.Is(err, store.ErrSlotStateChanged) {
			// A concurrent reservation won the race between the occupancy
			// check and the write. The caller sees the same outcome a direct
			// read of the new state would have produced.
			return model.Slot{}, fmt.Errorf("slot %s: %w", slot.DisplayName, ErrSlotOccupied)
		}
		return model.Slot{}, err
	}

	slot.Occupied = true
	slot.Plate = plate
	return slot, nil
}

// Release frees the target slot after confirming the caller owns the vehicle
// bound to it.
func (c *Coordinator) Release(ctx context.Context, userID int64, slotID int64) (model.Slot, error) {
	slot, found, err := c.slots.GetSlot(ctx, slotID)
	if err != nil {
		return model.Slot{}, err
	}
	if !found {
		return model.Slot{}, fmt.Errorf("slot %d: %w", slotID, ErrSlotNotFound)
	}

	if !slot.Occupied {
		return model.Slot{}, fmt.Errorf("slot %s: %w", slot.DisplayName, ErrSlotAlreadyFree)
	}

	result, err := c.verifier.Verify(ctx, userID, slot.Plate)
	if err != nil {
		return model.Slot{}, err
	}
	if result != OwnedByCaller {
		return model.Slot{}, fmt.Errorf("slot %s holds plate %s: %w", slot.DisplayName, slot.Plate, ErrNotSlotHolder)
	}

	if err := c.slots.TransitionSlot(ctx, slotID, true, slot.Plate, false, ""); err != nil {
		if errors.Is(err, store.ErrSlotStateChanged) {
			return model.Slot{}, fmt.Errorf("slot %s: %w", slot.DisplayName, ErrSlotAlreadyFree)
		}
		return model.Slot{}, err
	}

	slot.Occupied = false
	slot.Plate = ""
	return slot, nil
}
