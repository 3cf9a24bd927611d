package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an outbox row. It is written inside the same transaction
// as the lifecycle transition that produced it; DispatchedAt stays nil until
// the relay has pushed it to the external channel.
type Notification struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"index"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	RelatedID    uint       `json:"related_id"`
	RelatedType  string     `json:"related_type"`
	Read         bool       `json:"read"`
	DispatchedAt *time.Time `json:"dispatched_at"`
}
