package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSymmetryAndZero(t *testing.T) {
	a := Point{Lat: -16.6805776, Lng: -49.4375273}
	b := Point{Lat: -16.6800000, Lng: -49.4370000}

	assert.Equal(t, 0.0, Distance(a, a), "identical points must be 0 m apart")
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9, "distance must be symmetric")
	assert.Greater(t, Distance(a, b), 0.0)
}

func TestDistanceKnownValue(t *testing.T) {
	// Praça Cívica to Goiânia bus terminal, roughly 3.0 km apart.
	a := Point{Lat: -16.6799, Lng: -49.2550}
	b := Point{Lat: -16.6668, Lng: -49.2802}

	assert.InDelta(t, 3050, Distance(a, b), 150)
}

func TestDistanceShortRange(t *testing.T) {
	// Roughly 11.1 m per 0.0001 degrees of latitude.
	a := Point{Lat: -16.6800, Lng: -49.4370}
	b := Point{Lat: -16.6801, Lng: -49.4370}

	assert.InDelta(t, 11.1, Distance(a, b), 0.2)
}

func TestBearing(t *testing.T) {
	origin := Point{Lat: 0, Lng: 0}

	assert.InDelta(t, 0, Bearing(origin, Point{Lat: 1, Lng: 0}), 0.5, "due north")
	assert.InDelta(t, 90, Bearing(origin, Point{Lat: 0, Lng: 1}), 0.5, "due east")
	assert.InDelta(t, 180, Bearing(origin, Point{Lat: -1, Lng: 0}), 0.5, "due south")
	assert.InDelta(t, 270, Bearing(origin, Point{Lat: 0, Lng: -1}), 0.5, "due west")
}

func TestPathDistance(t *testing.T) {
	points := []Point{
		{Lat: -16.6800, Lng: -49.4370},
		{Lat: -16.6801, Lng: -49.4370},
		{Lat: -16.6802, Lng: -49.4370},
	}

	total := PathDistance(points)
	assert.InDelta(t, Distance(points[0], points[1])+Distance(points[1], points[2]), total, 1e-9)

	assert.Equal(t, 0.0, PathDistance(nil))
	assert.Equal(t, 0.0, PathDistance(points[:1]))
}
