package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mapa_editor/internal/geo"
	"mapa_editor/internal/models"
	"mapa_editor/internal/proximity"
	"mapa_editor/internal/repository"
	"mapa_editor/internal/routing"
)

const geometryTimeout = 15 * time.Second

// Event is one outbound frame for the rendering layer. Payload fields are
// populated per type; Type is always set.
type Event struct {
	Type string `json:"type"`

	Alerts     []proximity.Alert `json:"alerts,omitempty"`
	ObservedAt *time.Time        `json:"observed_at,omitempty"`
	Present    *models.Present   `json:"present,omitempty"`
	RouteID    uint              `json:"route_id,omitempty"`
	Geometry   *routing.Result   `json:"geometry,omitempty"`
	Message    string            `json:"message,omitempty"`
	Collected  bool              `json:"collected,omitempty"`
	Already    bool              `json:"already_collected,omitempty"`
	Snapshot   *SnapshotPayload  `json:"snapshot,omitempty"`
}

// Event types emitted by a tracking session.
const (
	EventAlerts        = "alerts"
	EventPresentPrompt = "present_prompt"
	EventRacePrompt    = "race_prompt"
	EventRaceStarted   = "race_started"
	EventGeometry      = "geometry"
	EventNotice        = "notice"
	EventCollected     = "collected"
	EventSync          = "sync"
)

// SnapshotPayload is the sync frame body pushed when collections change.
type SnapshotPayload struct {
	Routes       []models.Route       `json:"routes"`
	Presents     []models.Present     `json:"presents"`
	Credenciados []models.Credenciado `json:"credenciados"`
}

// TrackingSession is the per-connection orchestrator: it owns the observer
// position flow, feeds the proximity engine and race lifecycle, keeps the
// cached route geometry fresh, and forwards derived events to the rendering
// layer through the emit callback.
//
// A single coarse mutex guards all session state; update rates are human
// and GPS driven, so contention is not a concern.
type TrackingSession struct {
	userID uint
	repo   repository.Store
	router *routing.Service
	emit   func(Event)

	mu             sync.Mutex
	snapshot       *repository.Snapshot
	currentRouteID uint
	marcoSig       string
	geometry       *routing.Result
	geometryGen    uint64
	race           proximity.RaceLifecycle
	presents       proximity.PresentTracker
	lastObserved   *geo.Point

	unsubscribe func()
	closed      bool
}

// New loads the user's collections, subscribes to change notifications and
// returns a ready session. emit must be safe for concurrent use; websocket
// callers serialize writes themselves.
func New(userID uint, repo repository.Store, router *routing.Service, emit func(Event)) (*TrackingSession, error) {
	snap, err := repo.Snapshot(userID)
	if err != nil {
		return nil, fmt.Errorf("open tracking session: %w", err)
	}

	s := &TrackingSession{
		userID: userID,
		repo:   repo,
		router: router,
		emit:   emit,
	}
	s.snapshot = snap.Clone()
	s.unsubscribe = repo.Subscribe(userID, s.onSnapshot)
	return s, nil
}

// Close detaches the session from change notifications.
func (s *TrackingSession) Close() {
	s.mu.Lock()
	s.closed = true
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// CurrentSnapshot returns the session's view of the user's collections.
func (s *TrackingSession) CurrentSnapshot() SnapshotPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SnapshotPayload{
		Routes:       s.snapshot.Routes,
		Presents:     s.snapshot.Presents,
		Credenciados: s.snapshot.Credenciados,
	}
}

// SelectRoute switches the session's current route, resets the race
// lifecycle and kicks off a geometry refresh.
func (s *TrackingSession) SelectRoute(routeID uint) error {
	s.mu.Lock()
	route := findRoute(s.snapshot.Routes, routeID)
	if route == nil {
		s.mu.Unlock()
		return fmt.Errorf("select route %d: %w", routeID, repository.ErrNotFound)
	}

	s.currentRouteID = routeID
	s.marcoSig = marcoSignature(route.Marcos)
	s.geometry = nil
	s.race.Reset()
	marcos := append([]models.Marco(nil), route.Marcos...)
	s.mu.Unlock()

	s.refreshGeometry(routeID, marcos)
	return nil
}

// Geometry returns the cached geometry for the current route, nil while a
// refresh is in flight or no route is selected.
func (s *TrackingSession) Geometry() *routing.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometry
}

// UpdatePosition ingests one observer sample. Each sample fully replaces
// prior observer state; the proximity evaluation is recomputed from scratch.
func (s *TrackingSession) UpdatePosition(observer geo.Point, observedAt time.Time) {
	s.mu.Lock()
	s.lastObserved = &observer

	var marcos []models.Marco
	if route := findRoute(s.snapshot.Routes, s.currentRouteID); route != nil {
		marcos = route.Marcos
	}

	alerts := proximity.Evaluate(observer, marcos, s.snapshot.Presents, s.snapshot.Credenciados)
	newlyActive := s.presents.Update(observer, s.snapshot.Presents)

	racePrompt := false
	if start := findStartMarco(marcos); start != nil {
		d := geo.Distance(observer, geo.Point{Lat: start.Lat, Lng: start.Lng})
		racePrompt = s.race.Update(d, s.geometry != nil)
	}
	routeID := s.currentRouteID
	s.mu.Unlock()

	ts := observedAt
	s.emit(Event{Type: EventAlerts, Alerts: alerts, ObservedAt: &ts})
	if newlyActive != nil {
		p := *newlyActive
		s.emit(Event{Type: EventPresentPrompt, Present: &p})
	}
	if racePrompt {
		s.emit(Event{Type: EventRacePrompt, RouteID: routeID})
	}
}

// Collect marks a present as collected. The flip is at most once; repeated
// calls report already_collected without duplicate reward signals.
func (s *TrackingSession) Collect(presentID uint) error {
	present, collectedNow, err := s.repo.CollectPresent(s.userID, presentID)
	if err != nil {
		return fmt.Errorf("collect present %d: %w", presentID, err)
	}

	s.mu.Lock()
	for i := range s.snapshot.Presents {
		if s.snapshot.Presents[i].ID == presentID {
			s.snapshot.Presents[i].Collected = true
		}
	}
	if s.presents.ActiveID() == presentID {
		s.presents.Clear()
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventCollected, Present: present, Collected: collectedNow, Already: !collectedNow})
	if collectedNow {
		s.repo.NotifyChanged(s.userID)
	}
	return nil
}

// DismissPresent closes the collect prompt; the present stays active so it
// does not re-prompt until the observer leaves and re-enters its radius.
func (s *TrackingSession) DismissPresent() {
	// The tracker keeps the active id; no state change is needed beyond the
	// UI closing the prompt.
}

// StartRace confirms the race prompt; no further prompts this session.
func (s *TrackingSession) StartRace() {
	s.mu.Lock()
	s.race.Start()
	routeID := s.currentRouteID
	s.mu.Unlock()
	s.emit(Event{Type: EventRaceStarted, RouteID: routeID})
}

// DismissRace declines the prompt and re-arms it for the next approach.
func (s *TrackingSession) DismissRace() {
	s.mu.Lock()
	s.race.Dismiss()
	s.mu.Unlock()
}

// RaceState exposes the lifecycle state for status frames and tests.
func (s *TrackingSession) RaceState() proximity.RaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.race.State()
}

// refreshGeometry recomputes geometry off the lock. Only the most recent
// refresh generation may publish its result, so a slow superseded call is
// discarded instead of overwriting newer geometry.
func (s *TrackingSession) refreshGeometry(routeID uint, marcos []models.Marco) {
	s.mu.Lock()
	s.geometryGen++
	gen := s.geometryGen
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), geometryTimeout)
		defer cancel()

		result := s.router.ComputeRoute(ctx, marcos)

		s.mu.Lock()
		if s.closed || gen != s.geometryGen || s.currentRouteID != routeID {
			s.mu.Unlock()
			logrus.WithFields(logrus.Fields{
				"route_id":   routeID,
				"generation": gen,
			}).Debug("Discarding superseded geometry result.")
			return
		}
		s.geometry = result
		s.mu.Unlock()

		if result == nil {
			return
		}
		if result.Fallback {
			s.emit(Event{Type: EventNotice, Message: "Routing service unavailable; showing straight-line route."})
		}
		s.emit(Event{Type: EventGeometry, RouteID: routeID, Geometry: result})
	}()
}

// onSnapshot handles a change fan-out: adopt the new collections, push a
// sync frame, and refresh geometry when the current route's marcos changed.
func (s *TrackingSession) onSnapshot(snap *repository.Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Adopt a private copy; Collect mutates the presents slice in place.
	s.snapshot = snap.Clone()

	var refresh []models.Marco
	routeID := s.currentRouteID
	if routeID != 0 {
		route := findRoute(snap.Routes, routeID)
		if route == nil {
			// Current route was deleted out from under the session.
			s.currentRouteID = 0
			s.marcoSig = ""
			s.geometry = nil
			s.race.Reset()
		} else if sig := marcoSignature(route.Marcos); sig != s.marcoSig {
			s.marcoSig = sig
			s.geometry = nil
			refresh = append([]models.Marco(nil), route.Marcos...)
		}
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventSync, Snapshot: &SnapshotPayload{
		Routes:       snap.Routes,
		Presents:     snap.Presents,
		Credenciados: snap.Credenciados,
	}})

	if refresh != nil {
		s.refreshGeometry(routeID, refresh)
	}
}

func findRoute(routes []models.Route, id uint) *models.Route {
	if id == 0 {
		return nil
	}
	for i := range routes {
		if routes[i].ID == id {
			return &routes[i]
		}
	}
	return nil
}

func findStartMarco(marcos []models.Marco) *models.Marco {
	for i := range marcos {
		if marcos[i].Kind == models.MarcoStart {
			return &marcos[i]
		}
	}
	return nil
}

// marcoSignature fingerprints the fields geometry depends on, so snapshot
// churn that does not move marcos does not trigger a recompute.
func marcoSignature(marcos []models.Marco) string {
	sig := ""
	for _, m := range routing.SortMarcos(marcos) {
		sig += fmt.Sprintf("%d:%s:%.7f:%.7f;", m.ID, m.Kind, m.Lat, m.Lng)
	}
	return sig
}
