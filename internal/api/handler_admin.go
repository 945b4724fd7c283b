package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"equipment-booking-backend/internal/model"
)

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	var categories []model.Category
	if err := h.db.Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}
	c.JSON(http.StatusOK, names)
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory handles POST /api/categories (admin).
func (h *Handler) CreateCategory(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(&model.Category{Name: req.Name}).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteCategory handles DELETE /api/categories/:name (admin). Items keep
// their label even if the category is retired.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	result := h.db.Delete(&model.Category{}, "name = ?", c.Param("name"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers handles GET /api/users (admin).
func (h *Handler) ListUsers(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var users []model.User
	if err := h.db.Order("name").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required,oneof=employee admin"`
}

// CreateUser handles POST /api/users (admin). New members start with the
// default password.
func (h *Handler) CreateUser(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := model.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: model.DefaultPassword,
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Role  string `json:"role" binding:"required,oneof=employee admin"`
}

// UpdateUser handles PUT /api/users/:id (admin): name, email, and role.
func (h *Handler) UpdateUser(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.db.Model(&model.User{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]any{
			"name":  req.Name,
			"email": req.Email,
			"role":  req.Role,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/users/:id (admin).
func (h *Handler) DeleteUser(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	result := h.db.Delete(&model.User{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetUserPassword handles POST /api/users/:id/reset_password (admin).
// Restores the default password; there is no cryptographic backing here, a
// known limitation inherited from the origin system.
func (h *Handler) ResetUserPassword(c *gin.Context) {
	if _, ok := h.adminActor(c); !ok {
		return
	}

	result := h.db.Model(&model.User{}).
		Where("id = ?", c.Param("id")).
		Update("password", model.DefaultPassword)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
