package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResetSlots handles POST /api/admin/slots/reset: an operator-triggered bulk
// clear of every slot back to free/unbound. Guarded by the admin role; not
// part of normal request flow.
func (h *Handler) ResetSlots(c *gin.Context) {
	if err := h.store.ResetSlots(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset slots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
