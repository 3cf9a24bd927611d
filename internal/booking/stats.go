package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
)

type StatusCounts struct {
	Pending             int64 `json:"pending"`
	Confirmed           int64 `json:"confirmed"`
	RescheduleRequested int64 `json:"reschedule_requested"`
	Cancelled           int64 `json:"cancelled"`
	Completed           int64 `json:"completed"`
}

type AmountTotals struct {
	Paid     float64 `json:"paid"`
	Unpaid   float64 `json:"unpaid"`
	Refunded float64 `json:"refunded"`
}

// Statistics backs the guide and tourist dashboards: counts per lifecycle
// state and amount sums per payment state.
type Statistics struct {
	Total    int64        `json:"total"`
	ByStatus StatusCounts `json:"by_status"`
	Amounts  AmountTotals `json:"amounts"`
	Upcoming int64        `json:"upcoming"`
}

// GuideStatistics aggregates the reservations across all of a guide's tours.
func (e *Engine) GuideStatistics(ctx context.Context, guideID uint) (*Statistics, error) {
	return e.collectStatistics(func() *gorm.DB {
		return e.db.WithContext(ctx).Model(&models.Reservation{}).
			Joins("JOIN tours ON tours.id = reservations.tour_id").
			Where("tours.guide_id = ?", guideID)
	})
}

// TouristStatistics aggregates the tourist's own reservations.
func (e *Engine) TouristStatistics(ctx context.Context, touristID uint) (*Statistics, error) {
	return e.collectStatistics(func() *gorm.DB {
		return e.db.WithContext(ctx).Model(&models.Reservation{}).
			Where("reservations.tourist_id = ?", touristID)
	})
}

// collectStatistics runs each aggregate on a fresh query from the scope
// factory, since gorm builders are consumed by execution.
func (e *Engine) collectStatistics(scope func() *gorm.DB) (*Statistics, error) {
	stats := &Statistics{}

	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		status models.ReservationStatus
		dest   *int64
	}{
		{models.StatusPending, &stats.ByStatus.Pending},
		{models.StatusConfirmed, &stats.ByStatus.Confirmed},
		{models.StatusRescheduleRequested, &stats.ByStatus.RescheduleRequested},
		{models.StatusCancelled, &stats.ByStatus.Cancelled},
		{models.StatusCompleted, &stats.ByStatus.Completed},
	}
	for _, sc := range statusCounts {
		if err := scope().Where("reservations.status = ?", sc.status).Count(sc.dest).Error; err != nil {
			return nil, err
		}
	}

	amountSums := []struct {
		payment models.PaymentStatus
		dest    *float64
	}{
		{models.PaymentPaid, &stats.Amounts.Paid},
		{models.PaymentUnpaid, &stats.Amounts.Unpaid},
		{models.PaymentRefunded, &stats.Amounts.Refunded},
	}
	for _, as := range amountSums {
		err := scope().Where("reservations.payment_status = ?", as.payment).
			Select("COALESCE(SUM(reservations.amount), 0)").
			Scan(as.dest).Error
		if err != nil {
			return nil, err
		}
	}

	err := scope().Where("reservations.status IN ?", models.ActiveStatuses()).
		Where("reservations.start_date >= ?", time.Now()).
		Count(&stats.Upcoming).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
