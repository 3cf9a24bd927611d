package notifier

import (
	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/models"
)

// Notification type catalog consumed by the dashboards.
const (
	TypeReservationNew       = "reservation_new"
	TypeReservationConfirmed = "reservation_confirmed"
	TypeReservationCancelled = "reservation_cancelled"
	TypeRescheduleRequest    = "reschedule_request"
	TypeRescheduleApproved   = "reschedule_approved"
	TypeRescheduleRejected   = "reschedule_rejected"
	TypePaymentReceived      = "payment_received"
	TypePaymentRefunded      = "payment_refunded"
	TypeTourReminder         = "tour_reminder"
)

// Sink records a notification for a user. Implementations must write through
// the supplied transaction handle so the record commits or rolls back
// together with the state transition that produced it.
type Sink interface {
	Notify(tx *gorm.DB, userID uint, notifType, title, message string, relatedID uint, relatedType string) error
}

// Outbox is the production Sink: notifications become rows in the
// notifications table and are relayed later by the Dispatcher.
type Outbox struct{}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Notify(tx *gorm.DB, userID uint, notifType, title, message string, relatedID uint, relatedType string) error {
	notification := models.Notification{
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}
	return tx.Create(&notification).Error
}
