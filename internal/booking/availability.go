package booking

import (
	"time"

	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
)

// HasConflict reports whether the guide already holds an active reservation
// (pending, confirmed or reschedule_requested, across all of their tours)
// whose window overlaps [start, end]. Overlap is inclusive: windows that
// merely touch at an endpoint still conflict. excludeID skips a single
// reservation so a reschedule can be checked against everything except the
// reservation being moved.
func HasConflict(tx *gorm.DB, guideID uint, start, end time.Time, excludeID uint) (bool, error) {
	q := tx.Model(&models.Reservation{}).
		Joins("JOIN tours ON tours.id = reservations.tour_id").
		Where("tours.guide_id = ?", guideID).
		Where("reservations.status IN ?", models.ActiveStatuses()).
		Where("reservations.start_date <= ? AND reservations.end_date >= ?", end, start)

	if excludeID != 0 {
		q = q.Where("reservations.id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
