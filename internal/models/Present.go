package models

import (
	"gorm.io/gorm"
)

// DefaultCollectionRadius is applied when a present is created without an
// explicit radius, in meters.
const DefaultCollectionRadius = 15.0

// CloneOffsetDegrees is added to lat/lng when cloning a present or
// credenciado so the copy does not sit exactly on top of the original.
const CloneOffsetDegrees = 0.0001

var presentKinds = map[string]bool{
	"currency":  true,
	"gem":       true,
	"potion":    true,
	"equipment": true,
	"key":       true,
	"bonus":     true,
}

// Present is a collectible point of interest. Collected flips false->true
// exactly once and never auto-reverts.
type Present struct {
	gorm.Model

	Name             string  `json:"name" binding:"required"`
	Description      string  `json:"description"`
	Kind             string  `json:"kind"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Collected        bool    `json:"collected"`
	Value            float64 `json:"value"`
	CollectionRadius float64 `json:"collection_radius"`
	UserID           uint    `json:"user_id" gorm:"index"`
}

// ValidPresentKind reports whether kind is one of the supported present kinds.
func ValidPresentKind(kind string) bool {
	return presentKinds[kind]
}

// ClonePresent returns an unsaved copy of p with a nudged position, a
// "(Copy)" name suffix and its collected state reset.
func ClonePresent(p Present) Present {
	clone := p
	clone.Model = gorm.Model{}
	clone.Name = p.Name + " (Copy)"
	clone.Lat = p.Lat + CloneOffsetDegrees
	clone.Lng = p.Lng + CloneOffsetDegrees
	clone.Collected = false
	return clone
}
