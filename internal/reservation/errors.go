package reservation

import "errors"

// Terminal business outcomes of a reserve or release request. Handlers map
// these to HTTP statuses; anything not matching one of them is an
// infrastructure error and may be retried by the caller.
var (
	// ErrVehicleNotFound: the plate has no ownership record.
	ErrVehicleNotFound = errors.New("vehicle is not registered")

	// ErrOwnershipConflict: the plate belongs to a different user.
	ErrOwnershipConflict = errors.New("vehicle is registered to another user")

	// ErrPlateAlreadyParked: the plate already occupies a different slot.
	ErrPlateAlreadyParked = errors.New("vehicle already occupies another slot")

	// ErrSlotNotFound: the target slot identifier does not exist.
	ErrSlotNotFound = errors.New("slot does not exist")

	// ErrSlotOccupied: the target slot holds a different plate.
	ErrSlotOccupied = errors.New("slot is occupied")

	// ErrSlotAlreadyYours: the target slot already holds the caller's own
	// plate. Deliberately a conflict rather than an idempotent success.
	ErrSlotAlreadyYours = errors.New("slot is already reserved by this vehicle")

	// ErrSlotAlreadyFree: release requested on a slot that is not occupied.
	ErrSlotAlreadyFree = errors.New("slot is not occupied")

	// ErrNotSlotHolder: the caller does not own the plate bound to the slot.
	ErrNotSlotHolder = errors.New("caller does not own the vehicle in this slot")
)
