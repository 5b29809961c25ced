package proximity

import (
	"sort"

	"mapa_editor/internal/geo"
	"mapa_editor/internal/models"
)

// AlertRadiusMeters is the inclusion threshold for proximity alerts.
// Entities at exactly this distance are still included.
const AlertRadiusMeters = 5000.0

// Severity bands for presentation. Banding never filters: every entity
// within AlertRadiusMeters is reported.
const (
	SeverityCritical = "critical" // <= 200 m
	SeverityHigh     = "high"     // <= 1000 m
	SeverityMedium   = "medium"   // <= 2000 m
	SeverityLow      = "low"
)

// Entity types carried on alerts.
const (
	EntityMarco       = "marco"
	EntityPresent     = "present"
	EntityCredenciado = "credenciado"
)

// Alert is a derived nearby-entity notice. It is recomputed in full on
// every observer position sample and never persisted.
type Alert struct {
	EntityType     string  `json:"entity_type"`
	EntityID       uint    `json:"entity_id"`
	Name           string  `json:"name"`
	Subtype        string  `json:"subtype,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
	Severity       string  `json:"severity"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
}

// SeverityFor maps a distance to its presentation band.
func SeverityFor(distanceMeters float64) string {
	switch {
	case distanceMeters <= 200:
		return SeverityCritical
	case distanceMeters <= 1000:
		return SeverityHigh
	case distanceMeters <= 2000:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Evaluate computes the ranked nearby-entity list for one observer sample.
// Candidates are the current route's marcos plus every present and
// credenciado; collected presents are excluded entirely. The result is
// ordered nearest first.
func Evaluate(observer geo.Point, marcos []models.Marco, presents []models.Present, credenciados []models.Credenciado) []Alert {
	alerts := make([]Alert, 0, len(marcos)+len(presents)+len(credenciados))

	for _, m := range marcos {
		d := geo.Distance(observer, geo.Point{Lat: m.Lat, Lng: m.Lng})
		if d > AlertRadiusMeters {
			continue
		}
		alerts = append(alerts, Alert{
			EntityType:     EntityMarco,
			EntityID:       m.ID,
			Name:           m.Name,
			Subtype:        m.Kind,
			DistanceMeters: d,
			Severity:       SeverityFor(d),
			Lat:            m.Lat,
			Lng:            m.Lng,
		})
	}

	for _, p := range presents {
		if p.Collected {
			continue
		}
		d := geo.Distance(observer, geo.Point{Lat: p.Lat, Lng: p.Lng})
		if d > AlertRadiusMeters {
			continue
		}
		alerts = append(alerts, Alert{
			EntityType:     EntityPresent,
			EntityID:       p.ID,
			Name:           p.Name,
			Subtype:        p.Kind,
			DistanceMeters: d,
			Severity:       SeverityFor(d),
			Lat:            p.Lat,
			Lng:            p.Lng,
		})
	}

	for _, cr := range credenciados {
		d := geo.Distance(observer, geo.Point{Lat: cr.Lat, Lng: cr.Lng})
		if d > AlertRadiusMeters {
			continue
		}
		alerts = append(alerts, Alert{
			EntityType:     EntityCredenciado,
			EntityID:       cr.ID,
			Name:           cr.Name,
			Subtype:        cr.Kind,
			DistanceMeters: d,
			Severity:       SeverityFor(d),
			Lat:            cr.Lat,
			Lng:            cr.Lng,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DistanceMeters < alerts[j].DistanceMeters
	})

	return alerts
}
