package models

import "gorm.io/gorm"

// User represents an operator account allowed to submit provisioning requests
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"not null"`
}
