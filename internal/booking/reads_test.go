package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tournest/tournest-api/internal/models"
)

func TestGetByReference(t *testing.T) {
	engine, db := testEngine(t)
	guide := createGuide(t, db, "guide@example.com")
	tourist := createTourist(t, db, "tourist@example.com")
	stranger := createTourist(t, db, "stranger@example.com")
	tour := createTour(t, db, guide.ID, 6)

	start := time.Now().Add(48 * time.Hour)
	reservation, err := engine.Create(context.Background(), CreateParams{
		TouristID: tourist.ID, TourID: tour.ID, StartDate: start, EndDate: start.Add(6 * time.Hour), NumberOfPeople: 2,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for _, userID := range []uint{tourist.ID, guide.ID} {
		got, err := engine.GetByReference(context.Background(), reservation.Reference, userID)
		if err != nil {
			t.Fatalf("GetByReference for user %d returned error: %v", userID, err)
		}
		if got.Reference != reservation.Reference {
			t.Errorf("expected reference %s, got %s", reservation.Reference, got.Reference)
		}
	}

	// Third parties get NotFound, not Unauthorized.
	if _, err := engine.GetByReference(context.Background(), reservation.Reference, stranger.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for a third party, got %v", err)
	}
	if _, err := engine.GetByReference(context.Background(), "no-such-reference", tourist.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for an unknown reference, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	engine, db := testEngine(t)
	guide := createGuide(t, db, "guide@example.com")
	tourist := createTourist(t, db, "tourist@example.com")
	tour := createTour(t, db, guide.ID, 6)

	base := time.Now().Add(48 * time.Hour)
	for i := 0; i < 12; i++ {
		status := models.StatusPending
		if i%2 == 0 {
			status = models.StatusConfirmed
		}
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		insertReservation(t, db, models.Reservation{
			TouristID: tourist.ID, TourID: tour.ID,
			StartDate: start, EndDate: start.Add(6 * time.Hour),
			Status: status,
		})
	}

	list, page, err := engine.ListForUser(context.Background(), tourist.ID, models.RoleTourist, ListFilters{})
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if page.Total != 12 || page.Pages != 2 || page.Limit != defaultPageSize {
		t.Errorf("unexpected pagination: %+v", page)
	}
	if len(list) != defaultPageSize {
		t.Errorf("expected %d reservations on page 1, got %d", defaultPageSize, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].StartDate.Before(list[i-1].StartDate) {
			t.Error("expected reservations ordered by start date ascending")
			break
		}
	}

	second, page, err := engine.ListForUser(context.Background(), tourist.ID, models.RoleTourist, ListFilters{Page: 2})
	if err != nil {
		t.Fatalf("ListForUser page 2 returned error: %v", err)
	}
	if len(second) != 2 || page.Page != 2 {
		t.Errorf("expected 2 reservations on page 2, got %d (page %d)", len(second), page.Page)
	}

	confirmed, page, err := engine.ListForUser(context.Background(), guide.ID, models.RoleGuide, ListFilters{Status: string(models.StatusConfirmed)})
	if err != nil {
		t.Fatalf("ListForUser with filter returned error: %v", err)
	}
	if page.Total != 6 {
		t.Errorf("expected 6 confirmed reservations, got %d", page.Total)
	}
	for _, r := range confirmed {
		if r.Status != models.StatusConfirmed {
			t.Errorf("expected only confirmed reservations, got %s", r.Status)
		}
	}

	if _, _, err := engine.ListForUser(context.Background(), tourist.ID, models.RoleTourist, ListFilters{Status: "bogus"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected invalid input for unknown status filter, got %v", err)
	}
}

func TestUpcoming(t *testing.T) {
	engine, db := testEngine(t)
	guide := createGuide(t, db, "guide@example.com")
	tourist := createTourist(t, db, "tourist@example.com")
	tour := createTour(t, db, guide.ID, 6)

	past := time.Now().Add(-48 * time.Hour)
	insertReservation(t, db, models.Reservation{
		TouristID: tourist.ID, TourID: tour.ID,
		StartDate: past, EndDate: past.Add(6 * time.Hour),
		Status: models.StatusCompleted,
	})
	for i := 0; i < 7; i++ {
		start := time.Now().Add(time.Duration(24*(i+1)) * time.Hour)
		insertReservation(t, db, models.Reservation{
			TouristID: tourist.ID, TourID: tour.ID,
			StartDate: start, EndDate: start.Add(6 * time.Hour),
			Status: models.StatusConfirmed,
		})
	}

	got, err := engine.Upcoming(context.Background(), tourist.ID, models.RoleTourist, 0)
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected default limit of 5, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartDate.Before(got[i-1].StartDate) {
			t.Error("expected upcoming reservations soonest first")
			break
		}
	}

	all, err := engine.Upcoming(context.Background(), guide.ID, models.RoleGuide, 50)
	if err != nil {
		t.Fatalf("Upcoming for guide returned error: %v", err)
	}
	if len(all) != 7 {
		t.Errorf("expected 7 upcoming reservations, got %d", len(all))
	}
}
