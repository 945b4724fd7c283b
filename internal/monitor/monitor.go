package monitor

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"equipment-booking-backend/config"
	"equipment-booking-backend/internal/booking"
	"equipment-booking-backend/internal/notification"
)

// Monitor periodically scans for overdue bookings and hands the resulting
// notices to the push worker pool. The scan itself lives in the engine; this
// is only the scheduling loop around it.
type Monitor struct {
	cfg        *config.Config
	engine     *booking.Service
	workerPool *notification.WorkerPool
}

// New creates a monitor over the given engine.
func New(cfg *config.Config, engine *booking.Service, pool *notification.WorkerPool) *Monitor {
	return &Monitor{cfg: cfg, engine: engine, workerPool: pool}
}

// WebpushOptions builds the push options shared by the monitor's worker pool.
func WebpushOptions(cfg *config.Config) *webpush.Options {
	return &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
}

// Run starts the scan loop. It blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	if !m.cfg.Monitor.Enabled {
		log.Println("Overdue monitor is disabled. Not starting.")
		return
	}
	log.Println("Starting overdue monitor...")

	m.workerPool.Start(ctx)

	m.ScanOnce(ctx)

	timer := time.NewTimer(m.cfg.Monitor.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Overdue monitor shutting down.")
			return
		case <-timer.C:
			m.ScanOnce(ctx)
			timer.Reset(m.cfg.Monitor.Interval)
		}
	}
}

// ScanOnce performs a single overdue scan and dispatches any notices.
func (m *Monitor) ScanOnce(ctx context.Context) {
	today := m.engine.Today()
	notices, err := m.engine.ScanOverdue(ctx, today)
	if err != nil {
		log.Printf("Overdue scan failed: %v", err)
		return
	}
	if len(notices) == 0 {
		return
	}

	log.Printf("Dispatching %d overdue alerts", len(notices))
	for _, n := range notices {
		m.workerPool.Dispatch(notification.Alert{
			ReservationID: n.Reservation.ID,
			Body:          n.Message,
		})
	}
}
