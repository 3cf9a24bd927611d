package models

import (
	"time"

	"gorm.io/gorm"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending             ReservationStatus = "pending"
	StatusConfirmed           ReservationStatus = "confirmed"
	StatusRescheduleRequested ReservationStatus = "reschedule_requested"
	StatusCancelled           ReservationStatus = "cancelled"
	StatusCompleted           ReservationStatus = "completed"
)

// validTransitions defines the reservation state machine.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:             {StatusConfirmed, StatusRescheduleRequested, StatusCancelled},
	StatusConfirmed:           {StatusCompleted, StatusCancelled},
	StatusRescheduleRequested: {StatusConfirmed, StatusCancelled},
	StatusCancelled:           {},
	StatusCompleted:           {},
}

func (s ReservationStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving from s to target.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s ReservationStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether the reservation still occupies the guide's
// calendar. Active reservations are the ones the availability check
// considers when looking for overlapping windows.
func (s ReservationStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRescheduleRequested:
		return true
	}
	return false
}

// ActiveStatuses lists the states counted by the availability check.
func ActiveStatuses() []ReservationStatus {
	return []ReservationStatus{StatusPending, StatusConfirmed, StatusRescheduleRequested}
}

// PaymentStatus tracks payment independently of the lifecycle state.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Reservation struct {
	gorm.Model
	Reference      string `json:"reference" gorm:"uniqueIndex"`
	TouristID      uint   `json:"tourist_id" gorm:"index"`
	Tourist        User   `json:"tourist" gorm:"foreignKey:TouristID"`
	TourID         uint   `json:"tour_id" gorm:"index"`
	Tour           Tour   `json:"tour"`
	NumberOfPeople int    `json:"number_of_people"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Proposed replacement window, both nil or both set, and only while
	// Status is reschedule_requested.
	SuggestedStartDate *time.Time `json:"suggested_start_date"`
	SuggestedEndDate   *time.Time `json:"suggested_end_date"`

	// Amount is fixed at creation and never recomputed, not even when a
	// reschedule changes the booked window.
	Amount float64 `json:"amount"`

	Status        ReservationStatus `json:"status" gorm:"index"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	ReminderSent  bool              `json:"reminder_sent"`
}

// CanSetPaymentStatus reports whether the payment axis may move to target
// given the current lifecycle state. Paying a cancelled reservation is
// forbidden, and a refund requires the money to have been received first.
func (r *Reservation) CanSetPaymentStatus(target PaymentStatus) bool {
	if !target.IsValid() {
		return false
	}
	switch target {
	case PaymentPaid:
		return r.Status != StatusCancelled && r.PaymentStatus != PaymentRefunded
	case PaymentRefunded:
		return r.PaymentStatus == PaymentPaid
	case PaymentUnpaid:
		return r.PaymentStatus == PaymentUnpaid
	}
	return false
}
