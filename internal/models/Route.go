package models

import (
	"time"

	"gorm.io/gorm"
)

// Route groups marcos into a named, colored path owned by a single user.
// The marco list is stored unordered; drawing order is derived from marco
// kind at geometry time.
type Route struct {
	gorm.Model

	Name             string     `json:"name" binding:"required"`
	Color            string     `json:"color"`
	Description      string     `json:"description"`
	ProposedValue    float64    `json:"proposed_value"`
	DeliveryDeadline *time.Time `json:"delivery_deadline,omitempty"`
	Notes            string     `json:"notes"`
	UserID           uint       `json:"user_id" gorm:"index"`

	Marcos []Marco `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"marcos,omitempty"`
}
