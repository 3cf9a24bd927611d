package booking

import (
	"context"
	"testing"
	"time"

	"github.com/tournest/tournest-api/internal/models"
)

func TestStatistics(t *testing.T) {
	engine, db := testEngine(t)
	guide := createGuide(t, db, "guide@example.com")
	otherGuide := createGuide(t, db, "other-guide@example.com")
	tourist := createTourist(t, db, "tourist@example.com")
	other := createTourist(t, db, "other@example.com")
	tour := createTour(t, db, guide.ID, 6)
	otherTour := createTour(t, db, otherGuide.ID, 6)

	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)

	seed := []models.Reservation{
		{TouristID: tourist.ID, TourID: tour.ID, StartDate: future, EndDate: future.Add(6 * time.Hour), Status: models.StatusPending, PaymentStatus: models.PaymentUnpaid, Amount: 1000},
		{TouristID: tourist.ID, TourID: tour.ID, StartDate: future.Add(24 * time.Hour), EndDate: future.Add(30 * time.Hour), Status: models.StatusConfirmed, PaymentStatus: models.PaymentPaid, Amount: 2000},
		{TouristID: other.ID, TourID: tour.ID, StartDate: future.Add(72 * time.Hour), EndDate: future.Add(78 * time.Hour), Status: models.StatusConfirmed, PaymentStatus: models.PaymentPaid, Amount: 3000},
		{TouristID: other.ID, TourID: tour.ID, StartDate: past, EndDate: past.Add(6 * time.Hour), Status: models.StatusCompleted, PaymentStatus: models.PaymentPaid, Amount: 4000},
		{TouristID: tourist.ID, TourID: tour.ID, StartDate: past, EndDate: past.Add(6 * time.Hour), Status: models.StatusCancelled, PaymentStatus: models.PaymentRefunded, Amount: 5000},
		// Belongs to a different guide's tour.
		{TouristID: tourist.ID, TourID: otherTour.ID, StartDate: future, EndDate: future.Add(6 * time.Hour), Status: models.StatusPending, PaymentStatus: models.PaymentUnpaid, Amount: 9000},
	}
	for _, r := range seed {
		insertReservation(t, db, r)
	}

	t.Run("guide", func(t *testing.T) {
		stats, err := engine.GuideStatistics(context.Background(), guide.ID)
		if err != nil {
			t.Fatalf("GuideStatistics returned error: %v", err)
		}

		if stats.Total != 5 {
			t.Errorf("expected total 5, got %d", stats.Total)
		}
		if stats.ByStatus.Pending != 1 || stats.ByStatus.Confirmed != 2 ||
			stats.ByStatus.Completed != 1 || stats.ByStatus.Cancelled != 1 {
			t.Errorf("unexpected status counts: %+v", stats.ByStatus)
		}
		if stats.Amounts.Paid != 9000 {
			t.Errorf("expected paid total 9000, got %v", stats.Amounts.Paid)
		}
		if stats.Amounts.Unpaid != 1000 {
			t.Errorf("expected unpaid total 1000, got %v", stats.Amounts.Unpaid)
		}
		if stats.Amounts.Refunded != 5000 {
			t.Errorf("expected refunded total 5000, got %v", stats.Amounts.Refunded)
		}
		if stats.Upcoming != 3 {
			t.Errorf("expected 3 upcoming, got %d", stats.Upcoming)
		}
	})

	t.Run("tourist", func(t *testing.T) {
		stats, err := engine.TouristStatistics(context.Background(), tourist.ID)
		if err != nil {
			t.Fatalf("TouristStatistics returned error: %v", err)
		}

		if stats.Total != 4 {
			t.Errorf("expected total 4, got %d", stats.Total)
		}
		if stats.ByStatus.Pending != 2 || stats.ByStatus.Confirmed != 1 || stats.ByStatus.Cancelled != 1 {
			t.Errorf("unexpected status counts: %+v", stats.ByStatus)
		}
		if stats.Amounts.Paid != 2000 {
			t.Errorf("expected paid total 2000, got %v", stats.Amounts.Paid)
		}
		if stats.Amounts.Unpaid != 10000 {
			t.Errorf("expected unpaid total 10000, got %v", stats.Amounts.Unpaid)
		}
		if stats.Upcoming != 3 {
			t.Errorf("expected 3 upcoming, got %d", stats.Upcoming)
		}
	})
}
