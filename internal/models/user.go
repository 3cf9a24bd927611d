package models

import (
	"gorm.io/gorm"
)

type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
)

func (r Role) IsValid() bool {
	return r == RoleTourist || r == RoleGuide
}

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         Role   `json:"role"`

	// Rate card, only meaningful for guides.
	HalfDayPrice   float64 `json:"half_day_price"`
	FullDayPrice   float64 `json:"full_day_price"`
	ExtraHourPrice float64 `json:"extra_hour_price"`
}
