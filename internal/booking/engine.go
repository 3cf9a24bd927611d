package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
	"github.com/tournest/tournest-api/internal/notifier"
)

const (
	MinPeople = 1
	MaxPeople = 50

	dateFormat         = "2006-01-02 15:04"
	relatedReservation = "reservation"
)

// Engine drives the reservation lifecycle. Every operation runs as a single
// transaction: load the current row, validate the guard against what the
// transaction sees, write, record the counterparty notification. A failure
// anywhere rolls back all of it, notification included.
type Engine struct {
	db    *gorm.DB
	sink  notifier.Sink
	locks *guideLocks
}

func NewEngine(db *gorm.DB, sink notifier.Sink) *Engine {
	return &Engine{db: db, sink: sink, locks: newGuideLocks()}
}

type CreateParams struct {
	TouristID      uint
	TourID         uint
	StartDate      time.Time
	EndDate        time.Time
	NumberOfPeople int
}

// Create books a tour for a tourist. The reservation starts out pending and
// unpaid, with the amount fixed from the guide's rate card. The availability
// scan and the insert run under the guide's lock inside one transaction, so
// two simultaneous bookings for the same guide cannot both pass the check.
func (e *Engine) Create(ctx context.Context, p CreateParams) (*models.Reservation, error) {
	if p.NumberOfPeople < MinPeople || p.NumberOfPeople > MaxPeople {
		return nil, fmt.Errorf("%w: number of people must be between %d and %d", ErrInvalidInput, MinPeople, MaxPeople)
	}
	if !p.StartDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: start date must be in the future", ErrInvalidInput)
	}
	if !p.EndDate.After(p.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	var tour models.Tour
	if err := e.db.WithContext(ctx).Preload("Guide").First(&tour, p.TourID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tour %d", ErrNotFound, p.TourID)
		}
		return nil, err
	}

	if tour.GuideID == p.TouristID {
		return nil, fmt.Errorf("%w: you cannot book your own tour", ErrConflict)
	}

	rates := RateCard{
		HalfDay:   tour.Guide.HalfDayPrice,
		FullDay:   tour.Guide.FullDayPrice,
		ExtraHour: tour.Guide.ExtraHourPrice,
	}
	amount := TotalAmount(tour.DurationHours, rates, p.NumberOfPeople)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: the guide has no usable rate card for this tour", ErrInvalidInput)
	}

	reservation := models.Reservation{
		Reference:      uuid.NewString(),
		TouristID:      p.TouristID,
		TourID:         tour.ID,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		NumberOfPeople: p.NumberOfPeople,
		Amount:         amount,
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentUnpaid,
	}

	lock := e.locks.acquire(tour.GuideID)
	defer lock.Unlock()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := HasConflict(tx, tour.GuideID, p.StartDate, p.EndDate, 0)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: the guide is not available for the selected dates", ErrConflict)
		}

		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		return e.sink.Notify(tx, tour.GuideID, notifier.TypeReservationNew,
			"New reservation request",
			fmt.Sprintf("New request for %q from %s to %s (%d people)",
				tour.Title, p.StartDate.Format(dateFormat), p.EndDate.Format(dateFormat), p.NumberOfPeople),
			reservation.ID, relatedReservation)
	})
	if err != nil {
		return nil, err
	}

	reservation.Tour = tour
	return &reservation, nil
}

// loadByReference fetches a reservation with its tour, guide and tourist.
// Callers inside a transaction pass tx so guard checks see the row the
// transaction sees.
func loadByReference(tx *gorm.DB, reference string) (*models.Reservation, error) {
	var r models.Reservation
	err := tx.Preload("Tour").Preload("Tour.Guide").Preload("Tourist").
		Where("reference = ?", reference).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reference)
		}
		return nil, err
	}
	return &r, nil
}
