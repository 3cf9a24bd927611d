package notifier

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
)

// Sender delivers a single notification to an external channel.
type Sender interface {
	Send(n models.Notification) error
}

// Dispatcher drains the notification outbox. Rows that fail to send keep a
// nil DispatchedAt and are retried on the next tick, so a transient channel
// outage never loses a notification.
type Dispatcher struct {
	db     *gorm.DB
	sender Sender
}

func NewDispatcher(db *gorm.DB, sender Sender) *Dispatcher {
	return &Dispatcher{db: db, sender: sender}
}

// DispatchPending relays undelivered outbox rows in insertion order and
// returns how many were delivered.
func (d *Dispatcher) DispatchPending() (int, error) {
	var pending []models.Notification
	err := d.db.Where("dispatched_at IS NULL").Order("id asc").Limit(100).Find(&pending).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range pending {
		if err := d.sender.Send(n); err != nil {
			log.Printf("Failed to relay notification %d: %v", n.ID, err)
			continue
		}

		now := time.Now()
		err := d.db.Model(&models.Notification{}).Where("id = ?", n.ID).Update("dispatched_at", now).Error
		if err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}

// Run drains the outbox on a fixed interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchPending(); err != nil {
				log.Printf("Failed to dispatch notifications: %v", err)
			}
		}
	}
}
