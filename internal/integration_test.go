package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"equipment-booking-backend/config"
	"equipment-booking-backend/internal/api"
	"equipment-booking-backend/internal/booking"
	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/db"
	"equipment-booking-backend/internal/model"
	"equipment-booking-backend/internal/monitor"
	"equipment-booking-backend/internal/notification"
)

// steppingClock is a clock the test can move forward day by day.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSender captures push payloads instead of delivering them.
type recordingSender struct {
	mu       sync.Mutex
	payloads []string
	done     chan struct{}
}

func (s *recordingSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	s.payloads = append(s.payloads, string(payload))
	s.mu.Unlock()
	s.done <- struct{}{}
	return &http.Response{
		StatusCode: http.StatusCreated,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}, nil
}

func (s *recordingSender) Payloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.payloads...)
}

// TestReservationLifecycle drives a booking from creation through overdue
// alerting to the verified return, exercising the HTTP API and the overdue
// monitor against one in-memory database.
func TestReservationLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	// The calendar starts on 2025-03-10.
	start, err := time.Parse(dates.Layout, "2025-03-10")
	require.NoError(t, err)
	clock := &steppingClock{now: start.Add(12 * time.Hour)}
	engine := booking.New(testDB, clock, time.UTC)

	cfg := &config.Config{}
	cfg.Server = config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1}
	cfg.Monitor.Enabled = true
	cfg.WorkerPool.Size = 2

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, testDB, &webpush.Options{})
	sender := &recordingSender{done: make(chan struct{}, 8)}
	pool.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	mon := monitor.New(cfg, engine, pool)

	router := api.NewRouter(testDB, engine, &cfg.Server, &webpush.Options{})

	alice := model.User{ID: "u-alice", Name: "Alice Chen", Role: model.RoleEmployee, Password: model.DefaultPassword}
	dana := model.User{ID: "u-dana", Name: "Dana Admin", Role: model.RoleAdmin, Password: model.DefaultPassword}
	camera := model.EquipmentItem{ID: "i-camera", Name: "Canon EOS R5", Category: "Cameras"}
	require.NoError(t, testDB.Create(&alice).Error)
	require.NoError(t, testDB.Create(&dana).Error)
	require.NoError(t, testDB.Create(&camera).Error)

	do := func(method, path, userName string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var reader io.Reader = bytes.NewReader(nil)
		if body != nil {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
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

	var res model.Reservation

	t.Run("booking starts today and the item is borrowed", func(t *testing.T) {
		w := do("POST", "/api/reservations", "Alice Chen", gin.H{
			"itemIds":   []string{camera.ID},
			"startDate": "2025-03-10",
			"endDate":   "2025-03-12",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, model.StatusPending, res.Status)

		w = do("GET", "/api/items/"+camera.ID+"/availability", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var avail booking.Availability
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
		assert.Equal(t, booking.Borrowed, avail.Status)
		require.NotNil(t, avail.Current)
		assert.Equal(t, "Alice Chen", avail.Current.UserName)
	})

	t.Run("a second borrower is refused for the same days", func(t *testing.T) {
		w := do("POST", "/api/reservations", "Dana Admin", gin.H{
			"itemIds":   []string{camera.ID},
			"startDate": "2025-03-12",
			"endDate":   "2025-03-14",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("overdue alert is pushed once the end date passes", func(t *testing.T) {
		w := do("PUT", "/api/subscriptions", "", gin.H{
			"endpoint": "https://example.com/push/alice",
			"p256dh":   "key",
			"auth":     "auth",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		// Nothing is overdue while the booking is within its range.
		mon.ScanOnce(ctx)
		assert.Empty(t, sender.Payloads())

		// The day after the due date the camera is overdue.
		clock.Advance(72 * time.Hour)
		mon.ScanOnce(ctx)

		select {
		case <-sender.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the overdue push")
		}
		payloads := sender.Payloads()
		require.Len(t, payloads, 1)
		assert.Contains(t, payloads[0], "Alice Chen")
		assert.Contains(t, payloads[0], "2025-03-12")

		var stored model.Reservation
		require.NoError(t, testDB.First(&stored, "id = ?", res.ID).Error)
		assert.True(t, stored.Notified)

		var logCount int64
		testDB.Model(&model.NotificationLog{}).Count(&logCount)
		assert.Equal(t, int64(1), logCount)
	})

	t.Run("a second scan stays quiet", func(t *testing.T) {
		mon.ScanOnce(ctx)
		time.Sleep(100 * time.Millisecond)
		assert.Len(t, sender.Payloads(), 1)
	})

	t.Run("verified return frees the item", func(t *testing.T) {
		w := do("POST", "/api/reservations/"+res.ID+"/return", "Alice Chen", gin.H{
			"verifierName": "Dana Admin",
		})
		require.Equal(t, http.StatusNoContent, w.Code)

		var stored model.Reservation
		require.NoError(t, testDB.First(&stored, "id = ?", res.ID).Error)
		assert.Equal(t, model.StatusCompleted, stored.Status)
		assert.Equal(t, "Dana Admin", stored.VerifiedBy)

		w = do("GET", "/api/items/"+camera.ID+"/availability", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var avail booking.Availability
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
		assert.Equal(t, booking.Available, avail.Status)
	})

	t.Run("snapshot export and import keep the ledger intact", func(t *testing.T) {
		w := do("GET", "/api/export", "Dana Admin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap booking.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		require.Len(t, snap.Reservations, 1)

		req, err := http.NewRequest("POST", "/api/import", bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Name", "Dana Admin")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		var count int64
		testDB.Model(&model.Reservation{}).Count(&count)
		assert.Equal(t, int64(1), count)

		var restored model.Reservation
		require.NoError(t, testDB.First(&restored, "id = ?", res.ID).Error)
		assert.Equal(t, model.StatusCompleted, restored.Status)
		assert.Equal(t, "Dana Admin", restored.VerifiedBy)
	})
}
