package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mapa_editor/internal/models"
)

// ErrNotFound is returned when an entity id does not exist for the user.
var ErrNotFound = errors.New("entity not found")

// Snapshot is a per-user view of every persisted map collection. Sessions
// consume snapshots instead of querying row by row.
type Snapshot struct {
	Routes       []models.Route
	Presents     []models.Present
	Credenciados []models.Credenciado
}

// Clone returns a copy with its own backing arrays, so one session can
// mutate its view without writing into another session's state.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Routes:       append([]models.Route(nil), s.Routes...),
		Presents:     append([]models.Present(nil), s.Presents...),
		Credenciados: append([]models.Credenciado(nil), s.Credenciados...),
	}
}

// Store is the persistence port the tracking session depends on. The gorm
// adapter below implements it; tests substitute an in-memory fake.
type Store interface {
	Snapshot(userID uint) (*Snapshot, error)
	CollectPresent(userID, presentID uint) (*models.Present, bool, error)
	Subscribe(userID uint, fn func(*Snapshot)) (unsubscribe func())
	NotifyChanged(userID uint)
}

// GormStore implements Store on top of the shared gorm handle and fans out
// change notifications to per-user subscribers (the push-sync channel for
// connected editor sessions).
type GormStore struct {
	db *gorm.DB

	mu      sync.Mutex
	subs    map[uint]map[int]func(*Snapshot)
	nextSub int
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:   db,
		subs: make(map[uint]map[int]func(*Snapshot)),
	}
}

// Snapshot loads all routes (with marcos), presents and credenciados owned
// by the user.
func (s *GormStore) Snapshot(userID uint) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := s.db.Preload("Marcos").Where("user_id = ?", userID).Find(&snap.Routes).Error; err != nil {
		return nil, fmt.Errorf("load routes for user %d: %w", userID, err)
	}
	if err := s.db.Where("user_id = ?", userID).Find(&snap.Presents).Error; err != nil {
		return nil, fmt.Errorf("load presents for user %d: %w", userID, err)
	}
	if err := s.db.Where("user_id = ?", userID).Find(&snap.Credenciados).Error; err != nil {
		return nil, fmt.Errorf("load credenciados for user %d: %w", userID, err)
	}

	return snap, nil
}

// CollectPresent flips collected false->true at most once. The update is
// keyed by identity, not current distance: a stale proximity suggestion
// still collects. The second return reports whether this call did the flip.
func (s *GormStore) CollectPresent(userID, presentID uint) (*models.Present, bool, error) {
	res := s.db.Model(&models.Present{}).
		Where("id = ? AND user_id = ? AND collected = ?", presentID, userID, false).
		Update("collected", true)
	if res.Error != nil {
		return nil, false, fmt.Errorf("collect present %d: %w", presentID, res.Error)
	}
	collectedNow := res.RowsAffected > 0

	var present models.Present
	if err := s.db.Where("id = ? AND user_id = ?", presentID, userID).First(&present).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("reload present %d: %w", presentID, err)
	}

	return &present, collectedNow, nil
}

// Subscribe registers a callback invoked with a fresh snapshot whenever the
// user's collections change. The returned func removes the subscription.
func (s *GormStore) Subscribe(userID uint, fn func(*Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[userID]; !ok {
		s.subs[userID] = make(map[int]func(*Snapshot))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[userID][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.subs[userID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(s.subs, userID)
			}
		}
	}
}

// NotifyChanged re-snapshots the user's collections and pushes the result
// to every subscriber. Each subscriber gets its own copy; subscribers own
// and may mutate what they receive. Called after each successful write.
func (s *GormStore) NotifyChanged(userID uint) {
	s.mu.Lock()
	subs := make([]func(*Snapshot), 0, len(s.subs[userID]))
	for _, fn := range s.subs[userID] {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	snap, err := s.Snapshot(userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to snapshot collections for change fan-out.")
		return
	}
	for _, fn := range subs {
		fn(snap.Clone())
	}
}

var (
	// Default is the process-wide store, set once at boot.
	Default *GormStore
)

// Init wires the package-level store to the shared database handle.
func Init(db *gorm.DB) {
	Default = NewGormStore(db)
}

// NotifyChanged fans out a change for the user through the default store.
func NotifyChanged(userID uint) {
	if Default != nil {
		Default.NotifyChanged(userID)
	}
}
