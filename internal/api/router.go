package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"equipment-booking-backend/config"
	"equipment-booking-backend/internal/booking"
	"equipment-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(db *gorm.DB, engine *booking.Service, cfg *config.ServerConfig, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(db, engine, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Items and derived availability
		api.GET("/items", caching, handler.ListItems)
		api.GET("/items/:id/availability", handler.GetItemAvailability)
		api.GET("/conflicts", handler.HasConflictQuery)
		api.POST("/items", handler.CreateItem)
		api.PUT("/items/:id", handler.UpdateItem)
		api.DELETE("/items/:id", handler.DeleteItem)

		// Reservation lifecycle
		api.POST("/reservations", handler.CreateReservation)
		api.GET("/reservations", handler.ListReservations)
		api.POST("/reservations/:id/cancel", handler.CancelReservation)
		api.POST("/reservations/:id/return", handler.CompleteReturn)

		// Admin: categories, users, audit, backup
		api.GET("/categories", caching, handler.ListCategories)
		api.POST("/categories", handler.CreateCategory)
		api.DELETE("/categories/:name", handler.DeleteCategory)
		api.GET("/users", handler.ListUsers)
		api.POST("/users", handler.CreateUser)
		api.PUT("/users/:id", handler.UpdateUser)
		api.DELETE("/users/:id", handler.DeleteUser)
		api.POST("/users/:id/reset_password", handler.ResetUserPassword)
		api.GET("/notifications", handler.ListNotifications)
		api.DELETE("/notifications", handler.ClearNotifications)
		api.POST("/overdue_scan", handler.RunOverdueScan)
		api.GET("/export", handler.ExportSnapshot)
		api.POST("/import", handler.ImportSnapshot)

		// Push subscriptions for overdue alerts
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
