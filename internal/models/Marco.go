package models

import (
	"gorm.io/gorm"
)

// Marco kinds. KindRank orders them for route drawing: start, mid, end.
const (
	MarcoStart = "start"
	MarcoMid   = "mid"
	MarcoEnd   = "end"
)

// Marco is a named waypoint belonging to exactly one route.
type Marco struct {
	gorm.Model

	Name string  `json:"name" binding:"required"`
	Kind string  `json:"kind" binding:"required"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`

	// Foreign key to route
	RouteID uint `json:"route_id" gorm:"index"`
}

// KindRank maps a marco kind to its drawing order. Unknown kinds sort last.
func KindRank(kind string) int {
	switch kind {
	case MarcoStart:
		return 0
	case MarcoMid:
		return 1
	case MarcoEnd:
		return 2
	default:
		return 3
	}
}

// ValidMarcoKind reports whether kind is one of the supported marco kinds.
func ValidMarcoKind(kind string) bool {
	return kind == MarcoStart || kind == MarcoMid || kind == MarcoEnd
}

// CloneMarco returns an unsaved copy of m with a nudged position and a
// "(Copy)" name suffix, staying on the same route.
func CloneMarco(m Marco) Marco {
	clone := m
	clone.Model = gorm.Model{}
	clone.Name = m.Name + " (Copy)"
	clone.Lat = m.Lat + CloneOffsetDegrees
	clone.Lng = m.Lng + CloneOffsetDegrees
	return clone
}
