package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-slot-backend/internal/model"
	"parking-slot-backend/internal/store"
)

// fakeRegistry is an in-memory plate -> owner mapping.
type fakeRegistry struct {
	owners map[string]int64
	err    error
}

func (f *fakeRegistry) LookupVehicleOwner(_ context.Context, plate string) (int64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	owner, ok := f.owners[plate]
	return owner, ok, nil
}

// fakeSlotStore is an in-memory slot registry whose TransitionSlot is atomic
// under a mutex, mirroring the conditional-update contract of the real store.
type fakeSlotStore struct {
	mu    sync.Mutex
	slots map[int64]*model.Slot
}

func newFakeSlotStore(count int) *fakeSlotStore {
	slots := make(map[int64]*model.Slot, count)
	for i := 1; i <= count; i++ {
		id := int64(i)
		slots[id] = &model.Slot{ID: id, DisplayName: fmt.Sprintf("Slot %d", i)}
	}
	return &fakeSlotStore{slots: slots}
}

func (f *fakeSlotStore) GetSlot(_ context.Context, slotID int64) (model.Slot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[slotID]
	if !ok {
		return model.Slot{}, false, nil
	}
	return *slot, true, nil
}

func (f *fakeSlotStore) FindSlotByPlate(_ context.Context, plate string, excludeSlotID int64) (model.Slot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.Occupied && slot.Plate == plate && slot.ID != excludeSlotID {
			return *slot, true, nil
		}
	}
	return model.Slot{}, false, nil
}

func (f *fakeSlotStore) TransitionSlot(_ context.Context, slotID int64, fromOccupied bool, fromPlate string, toOccupied bool, toPlate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[slotID]
	if !ok || slot.Occupied != fromOccupied || slot.Plate != fromPlate {
		return store.ErrSlotStateChanged
	}
	slot.Occupied = toOccupied
	slot.Plate = toPlate
	return nil
}

func newTestCoordinator(slots *fakeSlotStore, owners map[string]int64) *Coordinator {
	return NewCoordinator(slots, NewVerifier(&fakeRegistry{owners: owners}))
}

func TestReserve_Success(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	slot, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), slot.ID)
	assert.True(t, slot.Occupied)
	assert.Equal(t, "ABC1234", slot.Plate)

	stored, found, _ := slots.GetSlot(context.Background(), 3)
	require.True(t, found)
	assert.True(t, stored.Occupied)
	assert.Equal(t, "ABC1234", stored.Plate)
}

func TestReserve_UnregisteredVehicle(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestReserve_OwnershipConflict(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 2})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	assert.ErrorIs(t, err, ErrOwnershipConflict)

	stored, _, _ := slots.GetSlot(context.Background(), 3)
	assert.False(t, stored.Occupied, "a rejected request must not change state")
}

func TestReserve_PlateAlreadyParkedElsewhere(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 5)
	require.NoError(t, err)

	_, err = coord.Reserve(context.Background(), 1, "ABC1234", 7)
	assert.ErrorIs(t, err, ErrPlateAlreadyParked)

	stored, _, _ := slots.GetSlot(context.Background(), 7)
	assert.False(t, stored.Occupied)
}

func TestReserve_SlotNotFound(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 999)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReserve_SlotOccupiedByOtherPlate(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1, "XYZ9876": 2})

	_, err := coord.Reserve(context.Background(), 2, "XYZ9876", 3)
	require.NoError(t, err)

	_, err = coord.Reserve(context.Background(), 1, "ABC1234", 3)
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestReserve_SelfReservationIsConflict(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	require.NoError(t, err)

	// Re-reserving a slot you already hold is rejected, not a no-op.
	_, err = coord.Reserve(context.Background(), 1, "ABC1234", 3)
	assert.ErrorIs(t, err, ErrSlotAlreadyYours)
}

func TestReserve_LostRaceIsReportedAsOccupied(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1, "XYZ9876": 2})

	// Simulate the race window: the slot is taken after the occupancy check
	// would have seen it free. The conditional write must lose and the
	// caller must see SlotOccupied, not a generic failure.
	require.NoError(t, slots.TransitionSlot(context.Background(), 3, false, "", true, "XYZ9876"))

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestReserve_RegistryUnavailable(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := NewCoordinator(slots, NewVerifier(&fakeRegistry{err: errors.New("registry down")}))

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	require.Error(t, err)

	// Infrastructure failures must stay distinct from business rejections.
	assert.NotErrorIs(t, err, ErrVehicleNotFound)
	assert.NotErrorIs(t, err, ErrSlotOccupied)
}

func TestRelease_Success(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	require.NoError(t, err)

	slot, err := coord.Release(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.False(t, slot.Occupied)
	assert.Empty(t, slot.Plate)

	// A second release finds the slot already free.
	_, err = coord.Release(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrSlotAlreadyFree)
}

func TestRelease_SlotNotFound(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{})

	_, err := coord.Release(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestRelease_NotOwner(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	require.NoError(t, err)

	_, err = coord.Release(context.Background(), 2, 3)
	assert.ErrorIs(t, err, ErrNotSlotHolder)

	stored, _, _ := slots.GetSlot(context.Background(), 3)
	assert.True(t, stored.Occupied, "an unauthorized release must not change state")
}

func TestRelease_LostRaceIsReportedAsAlreadyFree(t *testing.T) {
	slots := newFakeSlotStore(15)
	coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

	_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
	require.NoError(t, err)

	// The slot is freed between the occupancy check and the write.
	require.NoError(t, slots.TransitionSlot(context.Background(), 3, true, "ABC1234", false, ""))

	_, err = coord.Release(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrSlotAlreadyFree)
}

func TestReserve_ConcurrentSameSlot(t *testing.T) {
	for i := 0; i < 50; i++ {
		slots := newFakeSlotStore(15)
		coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1, "XYZ9876": 2})

		var wg sync.WaitGroup
		errs := make([]error, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = coord.Reserve(context.Background(), 1, "ABC1234", 3)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = coord.Reserve(context.Background(), 2, "XYZ9876", 3)
		}()
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, ErrSlotOccupied)
			}
		}
		require.Equal(t, 1, winners, "exactly one of two racing reservations must win")

		stored, found, _ := slots.GetSlot(context.Background(), 3)
		require.True(t, found)
		assert.True(t, stored.Occupied)
		assert.NotEmpty(t, stored.Plate)
	}
}

func TestRelease_ConcurrentSameSlot(t *testing.T) {
	for i := 0; i < 50; i++ {
		slots := newFakeSlotStore(15)
		coord := newTestCoordinator(slots, map[string]int64{"ABC1234": 1})

		_, err := coord.Reserve(context.Background(), 1, "ABC1234", 3)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)

		wg.Add(2)
		for j := 0; j < 2; j++ {
			go func(j int) {
				defer wg.Done()
				_, errs[j] = coord.Release(context.Background(), 1, 3)
			}(j)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, ErrSlotAlreadyFree)
			}
		}
		require.Equal(t, 1, winners, "exactly one of two racing releases must win")
	}
}

func TestVerifyOwnership(t *testing.T) {
	verifier := NewVerifier(&fakeRegistry{owners: map[string]int64{"ABC1234": 1}})

	result, err := verifier.Verify(context.Background(), 1, "ABC1234")
	require.NoError(t, err)
	assert.Equal(t, OwnedByCaller, result)

	result, err = verifier.Verify(context.Background(), 2, "ABC1234")
	require.NoError(t, err)
	assert.Equal(t, OwnedByOther, result)

	result, err = verifier.Verify(context.Background(), 1, "ZZZ0000")
	require.NoError(t, err)
	assert.Equal(t, Unregistered, result)
}
