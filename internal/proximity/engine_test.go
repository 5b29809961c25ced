package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapa_editor/internal/geo"
	"mapa_editor/internal/models"
)

func TestSeverityBands(t *testing.T) {
	assert.Equal(t, SeverityCritical, SeverityFor(0))
	assert.Equal(t, SeverityCritical, SeverityFor(200), "200 m is still critical")
	assert.Equal(t, SeverityHigh, SeverityFor(200.1))
	assert.Equal(t, SeverityHigh, SeverityFor(1000))
	assert.Equal(t, SeverityMedium, SeverityFor(1000.1))
	assert.Equal(t, SeverityMedium, SeverityFor(2000))
	assert.Equal(t, SeverityLow, SeverityFor(2000.1))
	assert.Equal(t, SeverityLow, SeverityFor(AlertRadiusMeters))
}

func TestEvaluateRangeAndOrdering(t *testing.T) {
	observer := geo.Point{Lat: -16.6800, Lng: -49.4370}

	// 0.0001 deg of latitude is about 11 m; 0.04 deg is about 4.4 km,
	// 0.05 deg about 5.5 km (outside the alert radius).
	near := models.Marco{Name: "Largada", Kind: models.MarcoStart, Lat: -16.6801, Lng: -49.4370}
	near.ID = 1
	far := models.Marco{Name: "Chegada", Kind: models.MarcoEnd, Lat: -16.7200, Lng: -49.4370}
	far.ID = 2
	outside := models.Marco{Name: "Longe", Kind: models.MarcoMid, Lat: -16.7300, Lng: -49.4370}
	outside.ID = 3

	present := models.Present{Name: "Moeda", Kind: "currency", Lat: -16.6805, Lng: -49.4370}
	present.ID = 4
	venue := models.Credenciado{Name: "Restaurante", Kind: "restaurant", Lat: -16.6820, Lng: -49.4370}
	venue.ID = 5

	alerts := Evaluate(observer,
		[]models.Marco{far, near, outside},
		[]models.Present{present},
		[]models.Credenciado{venue},
	)

	require.Len(t, alerts, 4, "the marco beyond 5 km is dropped")

	// Nearest first.
	assert.Equal(t, uint(1), alerts[0].EntityID)
	assert.Equal(t, uint(4), alerts[1].EntityID)
	assert.Equal(t, uint(5), alerts[2].EntityID)
	assert.Equal(t, uint(2), alerts[3].EntityID)

	assert.Equal(t, EntityMarco, alerts[0].EntityType)
	assert.Equal(t, models.MarcoStart, alerts[0].Subtype)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, EntityPresent, alerts[1].EntityType)
	assert.Equal(t, EntityCredenciado, alerts[2].EntityType)

	assert.Equal(t, SeverityLow, alerts[3].Severity)
	for i := 1; i < len(alerts); i++ {
		assert.GreaterOrEqual(t, alerts[i].DistanceMeters, alerts[i-1].DistanceMeters)
	}
}

func TestEvaluateAlertRadiusBoundary(t *testing.T) {
	// Along a meridian the haversine distance is linear in latitude, so
	// these offsets land a few meters either side of the 5 km radius.
	observer := geo.Point{Lat: 0, Lng: 0}

	justInside := models.Marco{Name: "Dentro", Kind: models.MarcoMid, Lat: 0.04492, Lng: 0}
	justInside.ID = 1
	justOutside := models.Marco{Name: "Fora", Kind: models.MarcoMid, Lat: 0.04502, Lng: 0}
	justOutside.ID = 2

	din := geo.Distance(observer, geo.Point{Lat: justInside.Lat, Lng: justInside.Lng})
	dout := geo.Distance(observer, geo.Point{Lat: justOutside.Lat, Lng: justOutside.Lng})
	require.Less(t, din, AlertRadiusMeters)
	require.Greater(t, dout, AlertRadiusMeters)
	require.InDelta(t, AlertRadiusMeters, din, 10)
	require.InDelta(t, AlertRadiusMeters, dout, 10)

	alerts := Evaluate(observer, []models.Marco{justInside, justOutside}, nil, nil)

	require.Len(t, alerts, 1)
	assert.Equal(t, uint(1), alerts[0].EntityID)
	assert.Equal(t, SeverityLow, alerts[0].Severity)
}

func TestEvaluateSkipsCollectedPresents(t *testing.T) {
	observer := geo.Point{Lat: -16.6800, Lng: -49.4370}

	collected := models.Present{Name: "Pega", Kind: "gem", Lat: -16.6801, Lng: -49.4370, Collected: true}
	collected.ID = 1
	pending := models.Present{Name: "Livre", Kind: "gem", Lat: -16.6802, Lng: -49.4370}
	pending.ID = 2

	alerts := Evaluate(observer, nil, []models.Present{collected, pending}, nil)

	require.Len(t, alerts, 1)
	assert.Equal(t, uint(2), alerts[0].EntityID)
}

func TestEvaluateEmptyWorld(t *testing.T) {
	alerts := Evaluate(geo.Point{}, nil, nil, nil)
	assert.Empty(t, alerts)
}
