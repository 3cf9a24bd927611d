package booking

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
	"github.com/tournest/tournest-api/internal/notifier"
)

// Confirm moves a pending or reschedule_requested reservation to confirmed.
// Confirming a reschedule_requested reservation retracts the proposal and
// keeps the original window.
func (e *Engine) Confirm(ctx context.Context, reference string, guideID uint) (*models.Reservation, error) {
	var out models.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}
		if r.Tour.GuideID != guideID {
			return fmt.Errorf("%w: only the owning guide can confirm a reservation", ErrUnauthorized)
		}
		if r.Status != models.StatusPending && r.Status != models.StatusRescheduleRequested {
			return fmt.Errorf("%w: cannot confirm a %s reservation", ErrInvalidTransition, r.Status)
		}

		if err := e.applyStatus(tx, r, models.StatusConfirmed, true); err != nil {
			return err
		}

		if err := e.sink.Notify(tx, r.TouristID, notifier.TypeReservationConfirmed,
			"Reservation confirmed",
			fmt.Sprintf("Your reservation for %q on %s has been confirmed", r.Tour.Title, r.StartDate.Format(dateFormat)),
			r.ID, relatedReservation); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel cancels an active reservation. The tourist may only cancel before
// the start date; the owning guide may cancel at any time before completion.
func (e *Engine) Cancel(ctx context.Context, reference string, actorID uint, role models.Role) (*models.Reservation, error) {
	var out models.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}

		var counterparty uint
		switch role {
		case models.RoleTourist:
			if r.TouristID != actorID {
				return fmt.Errorf("%w: this reservation belongs to another tourist", ErrUnauthorized)
			}
			counterparty = r.Tour.GuideID
		case models.RoleGuide:
			if r.Tour.GuideID != actorID {
				return fmt.Errorf("%w: this reservation belongs to another guide", ErrUnauthorized)
			}
			counterparty = r.TouristID
		default:
			return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, role)
		}

		if !r.Status.CanTransitionTo(models.StatusCancelled) {
			return fmt.Errorf("%w: a %s reservation cannot be cancelled", ErrInvalidTransition, r.Status)
		}
		if role == models.RoleTourist && !r.StartDate.After(time.Now()) {
			return fmt.Errorf("%w: cannot cancel after the start date", ErrInvalidTransition)
		}

		if err := e.applyStatus(tx, r, models.StatusCancelled, true); err != nil {
			return err
		}

		if err := e.sink.Notify(tx, counterparty, notifier.TypeReservationCancelled,
			"Reservation cancelled",
			fmt.Sprintf("The reservation for %q on %s has been cancelled", r.Tour.Title, r.StartDate.Format(dateFormat)),
			r.ID, relatedReservation); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProposeReschedule lets the owning guide offer a replacement window on a
// pending reservation. The new window is checked against the guide's other
// active reservations before the proposal is stored.
func (e *Engine) ProposeReschedule(ctx context.Context, reference string, guideID uint, suggestedStart, suggestedEnd time.Time) (*models.Reservation, error) {
	if !suggestedEnd.After(suggestedStart) {
		return nil, fmt.Errorf("%w: suggested end date must be after suggested start date", ErrInvalidInput)
	}

	var out models.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}
		if r.Tour.GuideID != guideID {
			return fmt.Errorf("%w: only the owning guide can propose new dates", ErrUnauthorized)
		}
		if !r.Status.CanTransitionTo(models.StatusRescheduleRequested) {
			return fmt.Errorf("%w: cannot propose new dates for a %s reservation", ErrInvalidTransition, r.Status)
		}

		conflict, err := HasConflict(tx, guideID, suggestedStart, suggestedEnd, r.ID)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: the suggested dates overlap another reservation", ErrConflict)
		}

		updates := map[string]interface{}{
			"status":               models.StatusRescheduleRequested,
			"suggested_start_date": suggestedStart,
			"suggested_end_date":   suggestedEnd,
		}
		if err := tx.Model(&models.Reservation{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := e.sink.Notify(tx, r.TouristID, notifier.TypeRescheduleRequest,
			"New dates proposed",
			fmt.Sprintf("The guide proposed new dates for %q: %s to %s",
				r.Tour.Title, suggestedStart.Format(dateFormat), suggestedEnd.Format(dateFormat)),
			r.ID, relatedReservation); err != nil {
			return err
		}

		r.Status = models.StatusRescheduleRequested
		r.SuggestedStartDate = &suggestedStart
		r.SuggestedEndDate = &suggestedEnd
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptReschedule lets the owning tourist adopt the proposed window: the
// suggested dates become the active booking window and the reservation is
// confirmed. The window is re-checked for overlap at accept time, since the
// guide's calendar may have changed since the proposal.
func (e *Engine) AcceptReschedule(ctx context.Context, reference string, touristID uint) (*models.Reservation, error) {
	// The lock key is not known until the row is loaded, so look up the
	// guide outside the transaction first.
	pre, err := loadByReference(e.db.WithContext(ctx), reference)
	if err != nil {
		return nil, err
	}

	lock := e.locks.acquire(pre.Tour.GuideID)
	defer lock.Unlock()

	var out models.Reservation
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}
		if r.TouristID != touristID {
			return fmt.Errorf("%w: this reservation belongs to another tourist", ErrUnauthorized)
		}
		if r.Status != models.StatusRescheduleRequested {
			return fmt.Errorf("%w: no reschedule has been proposed for this reservation", ErrInvalidTransition)
		}
		if r.SuggestedStartDate == nil || r.SuggestedEndDate == nil {
			return fmt.Errorf("%w: no suggested dates on this reservation", ErrInvalidTransition)
		}

		newStart, newEnd := *r.SuggestedStartDate, *r.SuggestedEndDate

		conflict, err := HasConflict(tx, r.Tour.GuideID, newStart, newEnd, r.ID)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: the proposed dates now overlap another reservation", ErrConflict)
		}

		updates := map[string]interface{}{
			"start_date":           newStart,
			"end_date":             newEnd,
			"suggested_start_date": nil,
			"suggested_end_date":   nil,
			"status":               models.StatusConfirmed,
		}
		if err := tx.Model(&models.Reservation{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := e.sink.Notify(tx, r.Tour.GuideID, notifier.TypeRescheduleApproved,
			"Reschedule accepted",
			fmt.Sprintf("The tourist accepted the new dates for %q: %s to %s",
				r.Tour.Title, newStart.Format(dateFormat), newEnd.Format(dateFormat)),
			r.ID, relatedReservation); err != nil {
			return err
		}

		r.StartDate, r.EndDate = newStart, newEnd
		r.SuggestedStartDate, r.SuggestedEndDate = nil, nil
		r.Status = models.StatusConfirmed
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectReschedule lets the owning tourist turn down the proposed window,
// which cancels the reservation.
func (e *Engine) RejectReschedule(ctx context.Context, reference string, touristID uint) (*models.Reservation, error) {
	var out models.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}
		if r.TouristID != touristID {
			return fmt.Errorf("%w: this reservation belongs to another tourist", ErrUnauthorized)
		}
		if r.Status != models.StatusRescheduleRequested {
			return fmt.Errorf("%w: no reschedule has been proposed for this reservation", ErrInvalidTransition)
		}

		if err := e.applyStatus(tx, r, models.StatusCancelled, true); err != nil {
			return err
		}

		if err := e.sink.Notify(tx, r.Tour.GuideID, notifier.TypeRescheduleRejected,
			"Reschedule rejected",
			fmt.Sprintf("The tourist rejected the new dates for %q; the reservation is cancelled", r.Tour.Title),
			r.ID, relatedReservation); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkCompleted closes out a confirmed reservation once the tour has ended.
func (e *Engine) MarkCompleted(ctx context.Context, reference string, guideID uint) (*models.Reservation, error) {
	var out models.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}
		if r.Tour.GuideID != guideID {
			return fmt.Errorf("%w: only the owning guide can complete a reservation", ErrUnauthorized)
		}
		if r.Status != models.StatusConfirmed {
			return fmt.Errorf("%w: only confirmed reservations can be completed", ErrInvalidTransition)
		}
		if !r.EndDate.Before(time.Now()) {
			return fmt.Errorf("%w: the tour has not ended yet", ErrInvalidTransition)
		}

		if err := e.applyStatus(tx, r, models.StatusCompleted, false); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePaymentStatus moves the payment axis. The allowed combinations are
// explicit: a cancelled reservation cannot be marked paid, and a refund
// requires the money to have been received first.
func (e *Engine) UpdatePaymentStatus(ctx context.Context, reference string, newStatus models.PaymentStatus) (*models.Reservation, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: invalid payment status %q", ErrInvalidInput, newStatus)
	}

	var out models.Reservation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadByReference(tx, reference)
		if err != nil {
			return err
		}
		if !r.CanSetPaymentStatus(newStatus) {
			return fmt.Errorf("%w: cannot mark a %s reservation %s while %s",
				ErrInvalidTransition, r.Status, newStatus, r.PaymentStatus)
		}

		if err := tx.Model(&models.Reservation{}).Where("id = ?", r.ID).
			Update("payment_status", newStatus).Error; err != nil {
			return err
		}

		switch newStatus {
		case models.PaymentPaid:
			if err := e.sink.Notify(tx, r.Tour.GuideID, notifier.TypePaymentReceived,
				"Payment received",
				fmt.Sprintf("Payment of %.2f received for %q", r.Amount, r.Tour.Title),
				r.ID, relatedReservation); err != nil {
				return err
			}
		case models.PaymentRefunded:
			if err := e.sink.Notify(tx, r.TouristID, notifier.TypePaymentRefunded,
				"Payment refunded",
				fmt.Sprintf("Your payment of %.2f for %q has been refunded", r.Amount, r.Tour.Title),
				r.ID, relatedReservation); err != nil {
				return err
			}
		}

		r.PaymentStatus = newStatus
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// applyStatus writes the status change, clearing the suggested window when
// requested, and mirrors the change onto the in-memory row.
func (e *Engine) applyStatus(tx *gorm.DB, r *models.Reservation, status models.ReservationStatus, clearSuggested bool) error {
	updates := map[string]interface{}{"status": status}
	if clearSuggested {
		updates["suggested_start_date"] = nil
		updates["suggested_end_date"] = nil
	}
	if err := tx.Model(&models.Reservation{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
		return err
	}

	r.Status = status
	if clearSuggested {
		r.SuggestedStartDate, r.SuggestedEndDate = nil, nil
	}
	return nil
}
