package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parking-slot-backend/internal/model"
	"parking-slot-backend/internal/mw"
	"parking-slot-backend/internal/parse"
	"parking-slot-backend/internal/store"
)

// VehicleResponse represents the API view of a registered vehicle.
type VehicleResponse struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
}

// ListVehicles handles GET /api/vehicles.
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.store.ListVehiclesByOwner(c.Request.Context(), mw.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vehicles"})
		return
	}

	responses := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, VehicleResponse{ID: v.ID, Plate: v.Plate})
	}
	c.JSON(http.StatusOK, responses)
}

type createVehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
}

// CreateVehicle handles POST /api/vehicles.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plate, err := parse.NormalizePlate(req.Plate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, found, err := h.store.LookupVehicleOwner(c.Request.Context(), plate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check plate"})
		return
	} else if found {
		c.JSON(http.StatusConflict, gin.H{"error": "plate is already registered"})
		return
	}

	vehicle := model.Vehicle{
		ID:      uuid.NewString(),
		Plate:   plate,
		OwnerID: mw.UserID(c),
	}
	if err := h.store.CreateVehicle(c.Request.Context(), &vehicle); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register vehicle"})
		return
	}

	c.JSON(http.StatusCreated, VehicleResponse{ID: vehicle.ID, Plate: vehicle.Plate})
}

// DeleteVehicle handles DELETE /api/vehicles/:plate. A vehicle currently
// occupying a slot must be released first.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	plate, err := parse.NormalizePlate(c.Param("plate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if slot, found, err := h.store.FindSlotByPlate(c.Request.Context(), plate, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check occupancy"})
		return
	} else if found {
		c.JSON(http.StatusConflict, gin.H{"error": "vehicle is parked in " + slot.DisplayName + "; release it first"})
		return
	}

	if err := h.store.DeleteVehicle(c.Request.Context(), mw.UserID(c), plate); err != nil {
		if errors.Is(err, store.ErrNoSuchVehicle) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}

	c.Status(http.StatusNoContent)
}
