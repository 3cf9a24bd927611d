package booking

import (
	"context"
	"testing"
	"time"

	"github.com/tournest/tournest-api/internal/models"
	"github.com/tournest/tournest-api/internal/notifier"
)

func TestSendTourReminders(t *testing.T) {
	engine, db := testEngine(t)
	guide := createGuide(t, db, "guide@example.com")
	tourist := createTourist(t, db, "tourist@example.com")
	tour := createTour(t, db, guide.ID, 6)

	soon := insertReservation(t, db, models.Reservation{
		TouristID: tourist.ID, TourID: tour.ID,
		StartDate: time.Now().Add(6 * time.Hour),
		EndDate:   time.Now().Add(12 * time.Hour),
		Status:    models.StatusConfirmed,
	})
	// Outside the lookahead window.
	insertReservation(t, db, models.Reservation{
		TouristID: tourist.ID, TourID: tour.ID,
		StartDate: time.Now().Add(72 * time.Hour),
		EndDate:   time.Now().Add(78 * time.Hour),
		Status:    models.StatusConfirmed,
	})
	// Within the window but not confirmed.
	insertReservation(t, db, models.Reservation{
		TouristID: tourist.ID, TourID: tour.ID,
		StartDate: time.Now().Add(8 * time.Hour),
		EndDate:   time.Now().Add(14 * time.Hour),
		Status:    models.StatusPending,
	})

	sent, err := engine.SendTourReminders(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("SendTourReminders returned error: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 reminder sent, got %d", sent)
	}

	if got := countNotifications(t, db, tourist.ID, notifier.TypeTourReminder); got != 1 {
		t.Errorf("expected 1 reminder for the tourist, got %d", got)
	}
	if got := countNotifications(t, db, guide.ID, notifier.TypeTourReminder); got != 1 {
		t.Errorf("expected 1 reminder for the guide, got %d", got)
	}

	var updated models.Reservation
	if err := db.First(&updated, soon.ID).Error; err != nil {
		t.Fatalf("failed to reload reservation: %v", err)
	}
	if !updated.ReminderSent {
		t.Error("expected reminder_sent to be set")
	}

	// A second sweep finds nothing new.
	sent, err = engine.SendTourReminders(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("second SendTourReminders returned error: %v", err)
	}
	if sent != 0 {
		t.Errorf("expected repeated sweep to send 0, got %d", sent)
	}
	if got := countNotifications(t, db, tourist.ID, notifier.TypeTourReminder); got != 1 {
		t.Errorf("expected reminders not to be duplicated, got %d", got)
	}
}
