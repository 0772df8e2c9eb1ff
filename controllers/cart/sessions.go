package cartControllers

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DJPaties/electrosaida-api/cart"
	"github.com/DJPaties/electrosaida-api/checkout"
)

// PlaceFunc runs at submit time, before the cart is cleared. The order
// controller supplies one that writes the order to the database.
type PlaceFunc func(sessionID string, conf checkout.Confirmation) error

// Sessions owns one cart store and checkout flow per browsing session.
// Stores are hydrated lazily from their snapshot files under dir.
type Sessions struct {
	mu       sync.Mutex
	dir      string
	methods  []checkout.PaymentMethod
	place    PlaceFunc
	log      *zap.Logger
	sessions map[string]*session
}

type session struct {
	store *cart.Store
	flow  *checkout.Flow
}

func NewSessions(dir string, methods []checkout.PaymentMethod, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		dir:      dir,
		methods:  methods,
		log:      log,
		sessions: make(map[string]*session),
	}
}

// SetPlacer wires the order-placement hook. Called once at startup.
func (s *Sessions) SetPlacer(place PlaceFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place = place
}

// Store returns the cart for the given session, creating it on first
// use with a file-backed snapshot.
func (s *Sessions) Store(sessionID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).store
}

// Flow returns the session's checkout flow. A submitted flow is
// terminal, so the next access after a placed order begins a fresh one
// over the same cart.
func (s *Sessions) Flow(sessionID string) *checkout.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	if sess.flow == nil || sess.flow.State() == checkout.StateSubmitted {
		sess.flow = checkout.NewFlow(sess.store, s.methods, s.placeFor(sessionID))
	}
	return sess.flow
}

// get returns the session entry, creating it if needed. Callers hold s.mu.
func (s *Sessions) get(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		store := cart.NewStore(cart.NewFileStorage(s.snapshotPath(sessionID)), s.log)
		sess = &session{store: store}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *Sessions) placeFor(sessionID string) func(checkout.Confirmation) error {
	place := s.place
	if place == nil {
		return nil
	}
	return func(conf checkout.Confirmation) error {
		return place(sessionID, conf)
	}
}

func (s *Sessions) snapshotPath(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

// PruneSnapshots removes snapshot files untouched for longer than
// retention, along with their idle in-memory sessions.
func (s *Sessions) PruneSnapshots(retention time.Duration) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read cart snapshot directory", zap.Error(err))
		}
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				s.log.Warn("failed to remove stale cart snapshot", zap.String("path", path), zap.Error(err))
				continue
			}
			sessionID := entry.Name()[:len(entry.Name())-len(".json")]
			s.mu.Lock()
			delete(s.sessions, sessionID)
			s.mu.Unlock()
			s.log.Info("removed stale cart snapshot", zap.String("session_id", sessionID))
		}
	}
}
