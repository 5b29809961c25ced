package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapa_editor/internal/models"
)

func TestSnapshotCloneHasOwnBackingArrays(t *testing.T) {
	present := models.Present{Name: "Moeda", Kind: "currency"}
	present.ID = 7
	route := models.Route{Name: "Rota"}
	route.ID = 1
	venue := models.Credenciado{Name: "Restaurante"}
	venue.ID = 2

	original := &Snapshot{
		Routes:       []models.Route{route},
		Presents:     []models.Present{present},
		Credenciados: []models.Credenciado{venue},
	}

	clone := original.Clone()
	require.Len(t, clone.Presents, 1)

	clone.Presents[0].Collected = true
	clone.Routes[0].Name = "Renomeada"

	assert.False(t, original.Presents[0].Collected, "mutating a clone must not touch the original")
	assert.Equal(t, "Rota", original.Routes[0].Name)
}
