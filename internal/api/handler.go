package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"equipment-booking-backend/internal/booking"
	"equipment-booking-backend/internal/model"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	db      *gorm.DB
	engine  *booking.Service
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(db *gorm.DB, engine *booking.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		db:      db,
		engine:  engine,
		webpush: webpushOptions,
	}
}

// actor resolves the acting user from the X-User-Name header. Real
// authentication sits in front of this service; the header names an already
// authenticated user.
func (h *Handler) actor(c *gin.Context) (model.User, bool) {
	name := c.GetHeader("X-User-Name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return model.User{}, false
	}

	var user model.User
	if err := h.db.First(&user, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown user"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return model.User{}, false
	}
	return user, true
}

// adminActor resolves the acting user and rejects non-admins.
func (h *Handler) adminActor(c *gin.Context) (model.User, bool) {
	user, ok := h.actor(c)
	if !ok {
		return model.User{}, false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return model.User{}, false
	}
	return user, true
}

// respondError maps engine failure classes onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrConflict), errors.Is(err, booking.ErrInvalidState):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
