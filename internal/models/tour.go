package models

import (
	"gorm.io/gorm"
)

type Tour struct {
	gorm.Model
	GuideID       uint    `json:"guide_id" gorm:"index"`
	Guide         User    `json:"guide" gorm:"foreignKey:GuideID"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	City          string  `json:"city"`
	DurationHours float64 `json:"duration_hours"`
	MeetingPoint  string  `json:"meeting_point"`
}
