package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/model"
)

// itemResponse is the flattened structure for the item list: the stored item
// plus its availability derived from the reservation ledger.
type itemResponse struct {
	model.EquipmentItem
	Status     string `json:"status"`
	BorrowedBy string `json:"borrowedBy,omitempty"`
}

// ListItems handles GET /api/items.
func (h *Handler) ListItems(c *gin.Context) {
	var items []model.EquipmentItem
	if err := h.db.Order("name").Find(&items).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve items"})
		return
	}

	today := h.engine.Today()
	response := make([]itemResponse, 0, len(items))
	for _, item := range items {
		avail, err := h.engine.Availability(c.Request.Context(), item.ID, today)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to derive availability"})
			return
		}
		entry := itemResponse{EquipmentItem: item, Status: avail.Status}
		if avail.Current != nil {
			entry.BorrowedBy = avail.Current.UserName
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}

// GetItemAvailability handles GET /api/items/:id/availability. An optional
// ?date=YYYY-MM-DD queries a day other than today.
func (h *Handler) GetItemAvailability(c *gin.Context) {
	asOf := h.engine.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := dates.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		asOf = parsed
	}

	avail, err := h.engine.Availability(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

type itemRequest struct {
	Name           string `json:"name" binding:"required"`
	Category       string `json:"category" binding:"required"`
	Specifications string `json:"specifications"`
}

// CreateItem handles POST /api/items (admin).
func (h *Handler) CreateItem(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := model.EquipmentItem{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Category:       req.Category,
		Specifications: req.Specifications,
	}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/:id (admin).
func (h *Handler) UpdateItem(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.db.Model(&model.EquipmentItem{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]any{
			"name":           req.Name,
			"category":       req.Category,
			"specifications": req.Specifications,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteItem handles DELETE /api/items/:id (admin). Items with reservation
// history are never deleted: the ledger is permanent and availability is
// derived from it.
func (h *Handler) DeleteItem(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}
	id := c.Param("id")

	var refs int64
	if err := h.db.Table("reservation_items").
		Where("equipment_item_id = ?", id).
		Count(&refs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if refs > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "item has reservation history and cannot be deleted"})
		return
	}

	result := h.db.Delete(&model.EquipmentItem{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// HasConflictQuery handles GET /api/conflicts: a dry-run conflict probe used
// by booking forms before submitting. The authoritative check still runs
// inside Create.
func (h *Handler) HasConflictQuery(c *gin.Context) {
	rng, err := dates.NewRange(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemIDs := c.QueryArray("itemId")
	if len(itemIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one itemId is required"})
		return
	}

	conflict, err := h.engine.HasConflict(c.Request.Context(), itemIDs, rng, c.Query("exclude"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conflict": conflict})
}
