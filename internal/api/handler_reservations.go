package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createReservationRequest struct {
	ItemIDs   []string `json:"itemIds" binding:"required"`
	StartDate string   `json:"startDate" binding:"required"`
	EndDate   string   `json:"endDate" binding:"required"`
}

// CreateReservation handles POST /api/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.engine.Create(c.Request.Context(), req.ItemIDs, req.StartDate, req.EndDate, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListReservations handles GET /api/reservations. Staff see their own
// bookings; admins may pass ?all=1 for the full ledger.
func (h *Handler) ListReservations(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	if c.Query("all") == "1" {
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		all, err := h.engine.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, all)
		return
	}

	own, err := h.engine.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, own)
}

// CancelReservation handles POST /api/reservations/:id/cancel.
func (h *Handler) CancelReservation(c *gin.Context) {
	user, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.engine.Cancel(c.Request.Context(), c.Param("id"), user); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type completeReturnRequest struct {
	VerifierName string `json:"verifierName" binding:"required"`
}

// CompleteReturn handles POST /api/reservations/:id/return.
func (h *Handler) CompleteReturn(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	var req completeReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.engine.CompleteReturn(c.Request.Context(), c.Param("id"), req.VerifierName); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
