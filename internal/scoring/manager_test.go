package scoring

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// fakePersister records saves and signals each one so tests can wait for the
// background goroutine instead of sleeping.
type fakePersister struct {
	mu    sync.Mutex
	saves []Snapshot
	done  chan struct{}
}

func newFakePersister() *fakePersister {
	return &fakePersister{done: make(chan struct{}, 16)}
}

func (p *fakePersister) SaveSnapshot(snap Snapshot) error {
	p.mu.Lock()
	p.saves = append(p.saves, snap)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *fakePersister) saved() []Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Snapshot(nil), p.saves...)
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{messages: make(map[string][][]byte)}
}

func (b *fakeBroadcaster) BroadcastToGame(gameID string, data []byte) {
	b.mu.Lock()
	b.messages[gameID] = append(b.messages[gameID], data)
	b.mu.Unlock()
}

func (b *fakeBroadcaster) count(gameID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages[gameID])
}

func (b *fakeBroadcaster) last(t *testing.T, gameID string) Snapshot {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := b.messages[gameID]
	if len(msgs) == 0 {
		t.Fatal("no broadcasts for game")
	}
	var snap Snapshot
	if err := json.Unmarshal(msgs[len(msgs)-1], &snap); err != nil {
		t.Fatalf("broadcast payload is not a snapshot: %v", err)
	}
	return snap
}

func TestManagerRegisterAndGet(t *testing.T) {
	m := NewManager(nil, nil)
	s, _, _ := newLiveSession(t)

	if _, ok := m.Get(s.GameID()); ok {
		t.Fatal("Get before Register should miss")
	}
	m.Register(s)
	got, ok := m.Get(s.GameID())
	if !ok || got != s {
		t.Fatal("Get after Register should return the same session")
	}

	m.Remove(s.GameID())
	if _, ok := m.Get(s.GameID()); ok {
		t.Fatal("Get after Remove should miss")
	}
}

func TestManagerFlushPersistsAndBroadcasts(t *testing.T) {
	p := newFakePersister()
	b := newFakeBroadcaster()
	m := NewManager(p, b)

	s, lineupA, _ := newLiveSession(t)
	m.Register(s)

	if err := s.RecordShot(lineupA[0], TeamA, 2, true); err != nil {
		t.Fatal(err)
	}
	snap := m.Flush(s)
	if snap.TeamAScore != 2 {
		t.Fatalf("flushed team_a_score = %d, want 2", snap.TeamAScore)
	}

	<-p.done
	saves := p.saved()
	if len(saves) != 1 || saves[0].TeamAScore != 2 {
		t.Fatalf("persisted saves = %+v, want one with team_a_score=2", saves)
	}

	got := b.last(t, s.GameID().String())
	if got.TeamAScore != 2 || got.GameID != s.GameID().String() {
		t.Fatalf("broadcast snapshot = %+v, want team_a_score=2", got)
	}
}

func TestManagerTickFlushesOnlyRunningClocks(t *testing.T) {
	b := newFakeBroadcaster()
	m := NewManager(nil, b)

	running, _, _ := newLiveSession(t)
	paused, _, _ := newLiveSession(t)
	m.Register(running)
	m.Register(paused)
	if err := running.StartClock(); err != nil {
		t.Fatal(err)
	}

	m.tickAll()

	if got := b.count(running.GameID().String()); got != 1 {
		t.Fatalf("running game got %d broadcasts, want 1", got)
	}
	if got := b.count(paused.GameID().String()); got != 0 {
		t.Fatalf("paused game got %d broadcasts, want 0", got)
	}
	if snap := b.last(t, running.GameID().String()); snap.TimeRemaining != 719 {
		t.Fatalf("broadcast time_remaining = %d, want 719", snap.TimeRemaining)
	}
}

func TestManagerRevertAllReloadsLastFlush(t *testing.T) {
	m := NewManager(nil, nil)
	s, lineupA, _ := newLiveSession(t)
	m.Register(s)

	if err := s.RecordShot(lineupA[0], TeamA, 3, true); err != nil {
		t.Fatal(err)
	}
	m.Flush(s)

	// Unsaved work after the flush
	if err := s.RecordShot(lineupA[1], TeamA, 2, true); err != nil {
		t.Fatal(err)
	}
	if err := s.UseTimeout(TeamB); err != nil {
		t.Fatal(err)
	}

	snap, err := m.RevertAll(s.GameID())
	if err != nil {
		t.Fatalf("RevertAll: %v", err)
	}
	if snap.TeamAScore != 3 {
		t.Fatalf("reverted team_a_score = %d, want 3", snap.TeamAScore)
	}
	if got := s.Snapshot(); got.TeamAScore != 3 || got.TeamBTimeouts != snap.TimeoutsPerQuarter {
		t.Fatalf("session after revert = %+v, want the flushed state", got)
	}
}

func TestManagerRevertAllUnknownGame(t *testing.T) {
	m := NewManager(nil, nil)
	if _, err := m.RevertAll(uuid.New()); !errors.Is(err, ErrGameNotLive) {
		t.Fatalf("RevertAll(unknown) = %v, want ErrGameNotLive", err)
	}
}

func TestManagerFlushAfterRemoveDoesNotResurrectRevertPoint(t *testing.T) {
	m := NewManager(nil, nil)
	s, _, _ := newLiveSession(t)
	m.Register(s)
	m.Remove(s.GameID())

	m.Flush(s)
	if _, err := m.RevertAll(s.GameID()); !errors.Is(err, ErrGameNotLive) {
		t.Fatalf("RevertAll after Remove = %v, want ErrGameNotLive", err)
	}
}
