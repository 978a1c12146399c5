package models

import "gorm.io/gorm"

// User owns trips. Staff users receive operator notifications when an
// upstream API fails.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-"`
	IsStaff  bool   `json:"is_staff"`

	Trips []Trip `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"trips,omitempty"`
}
