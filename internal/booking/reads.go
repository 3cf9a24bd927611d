package booking

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type ListFilters struct {
	Status string
	Page   int
	Limit  int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// GetByReference returns a reservation to its tourist or its guide. Anyone
// else gets NotFound rather than Unauthorized, so references do not leak
// whose bookings exist.
func (e *Engine) GetByReference(ctx context.Context, reference string, userID uint) (*models.Reservation, error) {
	r, err := loadByReference(e.db.WithContext(ctx), reference)
	if err != nil {
		return nil, err
	}
	if r.TouristID != userID && r.Tour.GuideID != userID {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reference)
	}
	return r, nil
}

// ListForUser pages through a user's reservations: the tourist's own
// bookings, or every booking on the guide's tours.
func (e *Engine) ListForUser(ctx context.Context, userID uint, role models.Role, f ListFilters) ([]models.Reservation, Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Status != "" && !models.ReservationStatus(f.Status).IsValid() {
		return nil, Pagination{}, fmt.Errorf("%w: invalid status filter %q", ErrInvalidInput, f.Status)
	}

	scope := func() (*gorm.DB, error) {
		q := e.db.WithContext(ctx).Model(&models.Reservation{})
		switch role {
		case models.RoleTourist:
			q = q.Where("reservations.tourist_id = ?", userID)
		case models.RoleGuide:
			q = q.Joins("JOIN tours ON tours.id = reservations.tour_id").
				Where("tours.guide_id = ?", userID)
		default:
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
		}
		if f.Status != "" {
			q = q.Where("reservations.status = ?", f.Status)
		}
		return q, nil
	}

	countQ, err := scope()
	if err != nil {
		return nil, Pagination{}, err
	}
	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	listQ, err := scope()
	if err != nil {
		return nil, Pagination{}, err
	}
	var reservations []models.Reservation
	err = listQ.Preload("Tour").Preload("Tour.Guide").Preload("Tourist").
		Order("reservations.start_date asc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&reservations).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	pages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	return reservations, Pagination{Page: f.Page, Limit: f.Limit, Total: total, Pages: pages}, nil
}

// Upcoming returns the user's next active reservations, soonest first.
func (e *Engine) Upcoming(ctx context.Context, userID uint, role models.Role, limit int) ([]models.Reservation, error) {
	if limit < 1 {
		limit = 5
	}

	q := e.db.WithContext(ctx).Model(&models.Reservation{})
	switch role {
	case models.RoleTourist:
		q = q.Where("reservations.tourist_id = ?", userID)
	case models.RoleGuide:
		q = q.Joins("JOIN tours ON tours.id = reservations.tour_id").
			Where("tours.guide_id = ?", userID)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	var reservations []models.Reservation
	err := q.Where("reservations.status IN ?", models.ActiveStatuses()).
		Where("reservations.start_date >= ?", time.Now()).
		Preload("Tour").Preload("Tour.Guide").Preload("Tourist").
		Order("reservations.start_date asc").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}
