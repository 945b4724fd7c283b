package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-booking-backend/internal/model"
)

// ListNotifications handles GET /api/notifications (admin): the append-only
// record of generated alerts.
func (h *Handler) ListNotifications(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var entries []model.NotificationLog
	if err := h.db.Order("created_at DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ClearNotifications handles DELETE /api/notifications (admin). Clearing the
// log does not reset any reservation's notified latch.
func (h *Handler) ClearNotifications(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	if err := h.db.Where("1 = 1").Delete(&model.NotificationLog{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RunOverdueScan handles POST /api/overdue_scan (admin): an on-demand scan,
// the same decision the background monitor makes periodically.
func (h *Handler) RunOverdueScan(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	notices, err := h.engine.ScanOverdue(c.Request.Context(), h.engine.Today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notices)
}
