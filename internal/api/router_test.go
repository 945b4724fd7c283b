package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"equipment-booking-backend/config"
	"equipment-booking-backend/internal/booking"
	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/db"
	"equipment-booking-backend/internal/model"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// setupTestRouter builds the full API router over an in-memory SQLite
// database with the clock pinned to noon on the given day.
func setupTestRouter(t *testing.T, today string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A pooled second connection would see a different :memory: database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	ts, err := time.Parse(dates.Layout, today)
	require.NoError(t, err)
	engine := booking.New(gdb, fixedClock{ts.Add(12 * time.Hour)}, time.UTC)

	cfg := &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	return NewRouter(gdb, engine, cfg, &webpush.Options{}), gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name, role string) model.User {
	t.Helper()
	user := model.User{ID: uuid.NewString(), Name: name, Role: role, Password: model.DefaultPassword}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func seedItem(t *testing.T, gdb *gorm.DB, name string) model.EquipmentItem {
	t.Helper()
	item := model.EquipmentItem{ID: uuid.NewString(), Name: name, Category: "Laptops"}
	require.NoError(t, gdb.Create(&item).Error)
	return item
}

// doJSON performs a request with an optional JSON body and acting user header.
func doJSON(t *testing.T, router *gin.Engine, method, path, userName string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userName != "" {
		req.Header.Set("X-User-Name", userName)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
