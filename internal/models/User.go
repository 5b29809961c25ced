package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Role     string `json:"role" gorm:"default:user"`

	// Per-user token for the Mapbox geocoding proxy. Optional; address
	// search is disabled until the user saves one in settings.
	MapboxToken string `json:"mapbox_token,omitempty"`
}
