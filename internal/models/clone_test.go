package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClonePresent(t *testing.T) {
	original := Present{
		Model:            gorm.Model{ID: 12, CreatedAt: time.Now()},
		Name:             "Moeda de Ouro",
		Description:      "100 pontos",
		Kind:             "currency",
		Lat:              -16.6805776,
		Lng:              -49.4375273,
		Collected:        true,
		Value:            100,
		CollectionRadius: 25,
		UserID:           3,
	}

	clone := ClonePresent(original)

	assert.Zero(t, clone.ID, "clone must be unsaved")
	assert.True(t, clone.CreatedAt.IsZero())
	assert.Equal(t, "Moeda de Ouro (Copy)", clone.Name)
	assert.InDelta(t, original.Lat+CloneOffsetDegrees, clone.Lat, 1e-12)
	assert.InDelta(t, original.Lng+CloneOffsetDegrees, clone.Lng, 1e-12)
	assert.False(t, clone.Collected, "clone starts uncollected")

	assert.Equal(t, original.Description, clone.Description)
	assert.Equal(t, original.Kind, clone.Kind)
	assert.Equal(t, original.Value, clone.Value)
	assert.Equal(t, original.CollectionRadius, clone.CollectionRadius)
	assert.Equal(t, original.UserID, clone.UserID)

	assert.True(t, original.Collected, "original untouched")
}

func TestCloneMarco(t *testing.T) {
	original := Marco{
		Model:   gorm.Model{ID: 5},
		Name:    "Largada",
		Kind:    MarcoStart,
		Lat:     -16.6805776,
		Lng:     -49.4375273,
		RouteID: 2,
	}

	clone := CloneMarco(original)

	assert.Zero(t, clone.ID)
	assert.Equal(t, "Largada (Copy)", clone.Name)
	assert.Equal(t, MarcoStart, clone.Kind)
	assert.Equal(t, uint(2), clone.RouteID, "clone stays on the same route")
	assert.InDelta(t, original.Lat+CloneOffsetDegrees, clone.Lat, 1e-12)
	assert.InDelta(t, original.Lng+CloneOffsetDegrees, clone.Lng, 1e-12)
}

func TestCloneCredenciado(t *testing.T) {
	original := Credenciado{
		Model:    gorm.Model{ID: 9},
		Name:     "Restaurante Central",
		Kind:     "restaurant",
		Lat:      -16.6807,
		Lng:      -49.4376,
		Discount: "10%",
		Phone:    "+55 62 0000-0000",
		Address:  "Av. Principal, 100",
		UserID:   3,
	}

	clone := CloneCredenciado(original)

	assert.Zero(t, clone.ID)
	assert.Equal(t, "Restaurante Central (Copy)", clone.Name)
	assert.Equal(t, original.Discount, clone.Discount)
	assert.Equal(t, original.Phone, clone.Phone)
	assert.Equal(t, original.Address, clone.Address)
	assert.InDelta(t, original.Lat+CloneOffsetDegrees, clone.Lat, 1e-12)
}

func TestKindValidation(t *testing.T) {
	assert.True(t, ValidMarcoKind(MarcoStart))
	assert.True(t, ValidMarcoKind(MarcoMid))
	assert.True(t, ValidMarcoKind(MarcoEnd))
	assert.False(t, ValidMarcoKind("checkpoint"))
	assert.False(t, ValidMarcoKind(""))

	assert.True(t, ValidPresentKind("currency"))
	assert.True(t, ValidPresentKind("bonus"))
	assert.False(t, ValidPresentKind("coin"))

	assert.True(t, ValidCredenciadoKind("restaurant"))
	assert.True(t, ValidCredenciadoKind("gym"))
	assert.False(t, ValidCredenciadoKind("bar"))
}

func TestKindRankOrdering(t *testing.T) {
	assert.Less(t, KindRank(MarcoStart), KindRank(MarcoMid))
	assert.Less(t, KindRank(MarcoMid), KindRank(MarcoEnd))
	assert.Less(t, KindRank(MarcoEnd), KindRank("unknown"))
}
