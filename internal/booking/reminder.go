package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
	"github.com/tournest/tournest-api/internal/notifier"
)

// SendTourReminders notifies both parties of confirmed reservations starting
// within the lookahead window. Each reservation is handled in its own
// transaction that also flips the reminder_sent flag, so a repeated sweep
// never notifies twice and a failure mid-sweep leaves the rest retryable.
func (e *Engine) SendTourReminders(ctx context.Context, lookahead time.Duration) (int, error) {
	now := time.Now()

	var due []models.Reservation
	err := e.db.WithContext(ctx).
		Preload("Tour").Preload("Tourist").
		Where("status = ?", models.StatusConfirmed).
		Where("reminder_sent = ?", false).
		Where("start_date >= ? AND start_date <= ?", now, now.Add(lookahead)).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		r := &due[i]
		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := e.sink.Notify(tx, r.TouristID, notifier.TypeTourReminder,
				"Tour reminder",
				fmt.Sprintf("Your tour %q starts on %s", r.Tour.Title, r.StartDate.Format(dateFormat)),
				r.ID, relatedReservation); err != nil {
				return err
			}
			if err := e.sink.Notify(tx, r.Tour.GuideID, notifier.TypeTourReminder,
				"Tour reminder",
				fmt.Sprintf("You have a tour with %s %s on %s",
					r.Tourist.FirstName, r.Tourist.LastName, r.StartDate.Format(dateFormat)),
				r.ID, relatedReservation); err != nil {
				return err
			}
			return tx.Model(&models.Reservation{}).Where("id = ?", r.ID).
				Update("reminder_sent", true).Error
		})
		if err != nil {
			log.Printf("Failed to send reminder for reservation %d: %v", r.ID, err)
			continue
		}
		sent++
	}

	return sent, nil
}

// RunReminderSweep runs SendTourReminders on a fixed interval until the
// context is cancelled.
func (e *Engine) RunReminderSweep(ctx context.Context, interval, lookahead time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.SendTourReminders(ctx, lookahead); err != nil {
				log.Printf("Reminder sweep failed: %v", err)
			}
		}
	}
}
