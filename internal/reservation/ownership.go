package reservation

import (
	"context"
	"fmt"
)

// OwnershipResult classifies a plate-to-user binding check.
type OwnershipResult int

const (
	// Unregistered: no vehicle record exists for the plate.
	Unregistered OwnershipResult = iota
	// OwnedByCaller: the plate belongs to the caller.
	OwnedByCaller
	// OwnedByOther: the plate belongs to a different user.
	OwnedByOther
)

// VehicleLookup is the read-only slice of the vehicle registry the verifier
// needs. Satisfied by store.Store.
type VehicleLookup interface {
	LookupVehicleOwner(ctx context.Context, plate string) (int64, bool, error)
}

// Verifier confirms plate-to-user bindings against the vehicle registry.
// Pure read, no side effects.
type Verifier struct {
	vehicles VehicleLookup
}

// NewVerifier creates an ownership verifier backed by the given registry.
func NewVerifier(vehicles VehicleLookup) *Verifier {
	return &Verifier{vehicles: vehicles}
}

// Verify reports whether the plate is unregistered, owned by the caller, or
// owned by somebody else. Registry failures propagate as errors, distinct
// from all three business outcomes.
func (v *Verifier) Verify(ctx context.Context, userID int64, plate string) (OwnershipResult, error) {
	ownerID, found, err := v.vehicles.LookupVehicleOwner(ctx, plate)
	if err != nil {
		return Unregistered, fmt.Errorf("vehicle registry lookup failed: %w", err)
	}
	if !found {
		return Unregistered, nil
	}
	if ownerID != userID {
		return OwnedByOther, nil
	}
	return OwnedByCaller, nil
}
