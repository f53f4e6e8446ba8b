package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking-slot-backend/internal/model"
	"parking-slot-backend/internal/mw"
	"parking-slot-backend/internal/parse"
	"parking-slot-backend/internal/reservation"
	"parking-slot-backend/internal/store"
)

// SlotResponse represents the API view of a single slot.
type SlotResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Occupied bool   `json:"occupied"`
	Plate    string `json:"plate,omitempty"`
}

func toSlotResponse(s model.Slot) SlotResponse {
	return SlotResponse{ID: s.ID, Name: s.DisplayName, Occupied: s.Occupied, Plate: s.Plate}
}

// GetSlots handles the GET /api/slots request. The listing is a total
// snapshot ordered by display name.
func GetSlots(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		slots, err := s.ListSlots(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve slots"})
			return
		}

		responses := make([]SlotResponse, 0, len(slots))
		for _, slot := range slots {
			responses = append(responses, toSlotResponse(slot))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// GetSlot handles GET /api/slots/:slot_id.
func (h *Handler) GetSlot(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("slot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	slot, found, err := h.store.GetSlot(c.Request.Context(), slotID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve slot"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "slot not found"})
		return
	}

	c.JSON(http.StatusOK, toSlotResponse(slot))
}

type reserveRequest struct {
	Plate string `json:"plate" binding:"required"`
}

// ReserveSlot handles POST /api/slots/:slot_id/reserve.
func (h *Handler) ReserveSlot(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("slot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plate, err := parse.NormalizePlate(req.Plate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.engine.Reserve(c.Request.Context(), mw.UserID(c), plate, slotID)
	if err != nil {
		writeReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSlotResponse(slot))
}

// ReleaseSlot handles POST /api/slots/:slot_id/release.
func (h *Handler) ReleaseSlot(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("slot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	slot, err := h.engine.Release(c.Request.Context(), mw.UserID(c), slotID)
	if err != nil {
		writeReservationError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(slot.ID)
	}

	c.JSON(http.StatusOK, toSlotResponse(slot))
}

// writeReservationError maps engine outcomes to HTTP statuses. Business
// rejections carry the engine's message so the caller can act on it;
// anything else is an infrastructure failure.
func writeReservationError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, reservation.ErrSlotNotFound),
		errors.Is(err, reservation.ErrVehicleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, reservation.ErrOwnershipConflict),
		errors.Is(err, reservation.ErrNotSlotHolder):
		status = http.StatusForbidden
	case errors.Is(err, reservation.ErrPlateAlreadyParked),
		errors.Is(err, reservation.ErrSlotOccupied),
		errors.Is(err, reservation.ErrSlotAlreadyYours),
		errors.Is(err, reservation.ErrSlotAlreadyFree):
		status = http.StatusConflict
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary failure, please retry"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
