package proximity

import (
	"mapa_editor/internal/geo"
	"mapa_editor/internal/models"
)

// PresentTracker owns the "active nearby present" state: the nearest
// uncollected present whose own collection radius contains the observer.
// At most one present is active at a time; the transition into active is
// what fires the collect-or-ignore prompt, exactly once per entry.
type PresentTracker struct {
	activeID uint
}

// Update re-evaluates the active present against one observer sample.
// The returned present is non-nil only on the sample where it became
// active; staying inside the radius never re-prompts. When no present
// qualifies the active state is cleared so a later re-entry prompts again.
func (t *PresentTracker) Update(observer geo.Point, presents []models.Present) *models.Present {
	var nearest *models.Present
	nearestDist := 0.0

	for i := range presents {
		p := &presents[i]
		if p.Collected {
			continue
		}
		radius := p.CollectionRadius
		if radius <= 0 {
			radius = models.DefaultCollectionRadius
		}
		d := geo.Distance(observer, geo.Point{Lat: p.Lat, Lng: p.Lng})
		if d > radius {
			continue
		}
		if nearest == nil || d < nearestDist {
			nearest = p
			nearestDist = d
		}
	}

	if nearest == nil {
		t.activeID = 0
		return nil
	}

	if nearest.ID == t.activeID {
		return nil
	}

	t.activeID = nearest.ID
	return nearest
}

// ActiveID returns the id of the currently active present, 0 if none.
func (t *PresentTracker) ActiveID() uint {
	return t.activeID
}

// Clear drops the active present without re-arming logic; used after a
// collect or when the present set is replaced.
func (t *PresentTracker) Clear() {
	t.activeID = 0
}
