package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-booking-backend/internal/booking"
)

// ExportSnapshot handles GET /api/export (admin): a full structural copy of
// the store for backup.
func (h *Handler) ExportSnapshot(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	snap, err := h.engine.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ImportSnapshot handles POST /api/import (admin): trusted atomic full
// replace of the store. Conflict checks are bypassed for the restore, but the
// engine re-validates the ledger invariants and rejects inconsistent
// snapshots whole.
func (h *Handler) ImportSnapshot(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var snap booking.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.engine.Import(c.Request.Context(), &snap); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
