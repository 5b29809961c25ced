package routing

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"mapa_editor/internal/geo"
	"mapa_editor/internal/models"
)

// FallbackSpeedMps is the assumed average urban driving speed (27 km/h)
// used to estimate duration when the directions provider is unavailable.
const FallbackSpeedMps = 7.5

// Result is the derived geometry for a route. It is cached by callers per
// route and never persisted.
type Result struct {
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Geometry        []geo.Point `json:"geometry"`

	// Fallback marks a straight-line estimate produced because the
	// directions provider failed. Callers surface it as a non-fatal notice.
	Fallback bool `json:"fallback"`
}

// Service computes route geometry through a directions provider, degrading
// to straight-line geometry when the provider fails.
type Service struct {
	client DirectionsClient
}

func NewService(client DirectionsClient) *Service {
	return &Service{client: client}
}

// SortMarcos returns a copy of marcos ordered for drawing: start, mid, end.
// Marcos of equal kind keep their original relative order.
func SortMarcos(marcos []models.Marco) []models.Marco {
	sorted := make([]models.Marco, len(marcos))
	copy(sorted, marcos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return models.KindRank(sorted[i].Kind) < models.KindRank(sorted[j].Kind)
	})
	return sorted
}

// ComputeRoute resolves geometry, total distance and duration for the given
// marcos. Fewer than two marcos yields nil. A provider failure is not an
// error: the result degrades to sorted straight-line geometry with a
// speed-based duration estimate and Fallback set.
func (s *Service) ComputeRoute(ctx context.Context, marcos []models.Marco) *Result {
	if len(marcos) < 2 {
		return nil
	}

	sorted := SortMarcos(marcos)
	points := make([]geo.Point, 0, len(sorted))
	for _, m := range sorted {
		points = append(points, geo.Point{Lat: m.Lat, Lng: m.Lng})
	}

	if s.client != nil {
		directions, err := s.client.Directions(ctx, points)
		if err == nil && len(directions.Geometry) >= 2 {
			return &Result{
				DistanceMeters:  directions.DistanceMeters,
				DurationSeconds: directions.DurationSeconds,
				Geometry:        directions.Geometry,
			}
		}
		if err != nil {
			logrus.WithError(err).Warn("Directions provider unavailable, using straight-line route.")
		} else {
			logrus.Warn("Directions provider returned no usable geometry, using straight-line route.")
		}
	}

	distance := geo.PathDistance(points)
	return &Result{
		DistanceMeters:  distance,
		DurationSeconds: distance / FallbackSpeedMps,
		Geometry:        points,
		Fallback:        true,
	}
}
