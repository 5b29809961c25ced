package models

import (
	"gorm.io/gorm"
)

var credenciadoKinds = map[string]bool{
	"restaurant":  true,
	"fuel":        true,
	"pharmacy":    true,
	"supermarket": true,
	"hotel":       true,
	"inn":         true,
	"gym":         true,
}

// Credenciado is an affiliated venue marker with descriptive metadata.
// Unlike presents it has no collected state.
type Credenciado struct {
	gorm.Model

	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Discount    string  `json:"discount"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	UserID      uint    `json:"user_id" gorm:"index"`
}

// ValidCredenciadoKind reports whether kind is a supported venue kind.
func ValidCredenciadoKind(kind string) bool {
	return credenciadoKinds[kind]
}

// CloneCredenciado returns an unsaved copy of cr with a nudged position and
// a "(Copy)" name suffix. All other fields are copied verbatim.
func CloneCredenciado(cr Credenciado) Credenciado {
	clone := cr
	clone.Model = gorm.Model{}
	clone.Name = cr.Name + " (Copy)"
	clone.Lat = cr.Lat + CloneOffsetDegrees
	clone.Lng = cr.Lng + CloneOffsetDegrees
	return clone
}
