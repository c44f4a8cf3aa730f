package scoring

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persister durably stores scoresheet snapshots. The Manager hands off a
// snapshot and moves on — it never blocks a scoring action on the database
// and never retries; a failed save is logged and the next flush carries the
// same state anyway.
type Persister interface {
	SaveSnapshot(snap Snapshot) error
}

// Broadcaster pushes a serialized snapshot to everyone watching a game
// (see internal/websocket).
type Broadcaster interface {
	BroadcastToGame(gameID string, data []byte)
}

// Manager is the registry of live sessions, keyed by game id. It drives
// every running clock from a single one-second ticker and fans each change
// out to the persister and the broadcaster. Sessions serialize their own
// mutations internally, so the Manager only needs its lock for the registry
// maps themselves.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*Session
	lastSaved map[uuid.UUID]Snapshot

	persister   Persister
	broadcaster Broadcaster

	// tick interval, a field so tests can run the loop faster than 1 Hz
	interval time.Duration
}

// NewManager creates an empty registry. Either collaborator may be nil, in
// which case that fan-out step is skipped (useful in tests).
func NewManager(p Persister, b Broadcaster) *Manager {
	return &Manager{
		sessions:    make(map[uuid.UUID]*Session),
		lastSaved:   make(map[uuid.UUID]Snapshot),
		persister:   p,
		broadcaster: b,
		interval:    time.Second,
	}
}

// Register adds a session to the registry and records its current snapshot
// as the revert point.
func (m *Manager) Register(s *Session) {
	snap := s.Snapshot()
	m.mu.Lock()
	m.sessions[s.GameID()] = s
	m.lastSaved[s.GameID()] = snap
	m.mu.Unlock()
}

// Get returns the live session for a game, if one is registered.
func (m *Manager) Get(gameID uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[gameID]
	return s, ok
}

// Remove drops a session from the registry once its game is completed or
// cancelled. The final snapshot should already have been flushed.
func (m *Manager) Remove(gameID uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, gameID)
	delete(m.lastSaved, gameID)
	m.mu.Unlock()
}

// Run is the clock loop. It must be called in a goroutine ("go mgr.Run()"),
// like the websocket hub's Run. Once per interval it ticks every registered
// session; sessions whose clock actually moved get flushed so watchers see
// the time change.
func (m *Manager) Run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for range ticker.C {
		m.tickAll()
	}
}

func (m *Manager) tickAll() {
	// Snapshot the session list under the read lock, then tick without it —
	// ticking takes each session's own mutex and can briefly contend with a
	// scorekeeper action.
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		if s.Tick() {
			m.Flush(s)
		}
	}
}

// Flush takes a fresh snapshot and fans it out: it becomes the new revert
// point, it is persisted in the background, and it is broadcast to watchers.
// Handlers call this after every successful mutation.
func (m *Manager) Flush(s *Session) Snapshot {
	snap := s.Snapshot()

	m.mu.Lock()
	// Only track the revert point for registered sessions; a flush racing
	// with Remove should not resurrect the map entry.
	if _, ok := m.sessions[s.GameID()]; ok {
		m.lastSaved[s.GameID()] = snap
	}
	m.mu.Unlock()

	if m.persister != nil {
		go func() {
			if err := m.persister.SaveSnapshot(snap); err != nil {
				log.Printf("scoresheet save failed for game %s: %v", snap.GameID, err)
			}
		}()
	}
	if m.broadcaster != nil {
		if data, err := json.Marshal(snap); err == nil {
			m.broadcaster.BroadcastToGame(snap.GameID, data)
		}
	}
	return snap
}

// RevertAll throws away everything since the last flush and reloads the
// session from that snapshot. This is a different operation from per-action
// undo: undo reverses one recorded action precisely, revert reloads the last
// saved state wholesale.
func (m *Manager) RevertAll(gameID uuid.UUID) (Snapshot, error) {
	m.mu.RLock()
	s, ok := m.sessions[gameID]
	snap, okSnap := m.lastSaved[gameID]
	m.mu.RUnlock()
	if !ok || !okSnap {
		return Snapshot{}, ErrGameNotLive
	}
	if err := s.Restore(snap); err != nil {
		return Snapshot{}, err
	}
	if m.broadcaster != nil {
		if data, err := json.Marshal(snap); err == nil {
			m.broadcaster.BroadcastToGame(snap.GameID, data)
		}
	}
	return snap, nil
}
