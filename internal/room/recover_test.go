package room

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianogappa/yaniv-backend/internal/store"
)

// fakeStore is a minimal in-memory Store that actually retains what it's
// given, unlike store.MemoryStore's no-op, so boot recovery can be exercised
// without a real database.
type fakeStore struct {
	mu    sync.Mutex
	rooms map[string]store.PersistedRoom

	stalePlayingCutoff time.Time
	staleWaitingCutoff time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: make(map[string]store.PersistedRoom)}
}

func (f *fakeStore) SaveRoom(rec store.RoomRecord, members []store.MemberRecord, state store.GameStateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[rec.Code] = store.PersistedRoom{Room: rec, Members: members, State: state}
	return nil
}

func (f *fakeStore) LoadRooms() ([]store.PersistedRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.PersistedRoom, 0, len(f.rooms))
	for _, p := range f.rooms {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) DeleteRoom(code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, code)
	return nil
}

func (f *fakeStore) TransitionStalePlaying(cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stalePlayingCutoff = cutoff
	return nil
}

func (f *fakeStore) DeleteStaleWaiting(cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staleWaitingCutoff = cutoff
	return nil
}

func (f *fakeStore) Close() error { return nil }

func TestRegistryPersistsRoomOnEveryMutation(t *testing.T) {
	fs := newFakeStore()
	reg := NewRegistry(fs)
	r, _, err := reg.CreateRoom("Alice", "", 0)
	require.NoError(t, err)

	persisted, err := fs.LoadRooms()
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, r.Code, persisted[0].Room.Code)
	assert.Len(t, persisted[0].Members, 1)
}

func TestRecoverRehydratesPlayingRoomWithGameState(t *testing.T) {
	fs := newFakeStore()
	reg := NewRegistry(fs)
	r, creatorPid, err := reg.CreateRoom("Alice", "", 1)
	require.NoError(t, err)
	require.NoError(t, reg.Start(r, creatorPid, nil))

	reg2 := NewRegistry(fs)
	reg2.Recover()

	rehydrated, ok := reg2.Get(r.Code)
	require.True(t, ok)
	assert.Equal(t, StatusPlaying, rehydrated.Status)
	require.NotNil(t, rehydrated.Game)
	assert.Len(t, rehydrated.Game.Players, 2)
	for _, p := range rehydrated.Game.Players {
		assert.Len(t, p.Hand, 5)
	}
}

func TestRecoverNoStoreIsNoop(t *testing.T) {
	reg := NewRegistry(nil)
	assert.NotPanics(t, func() { reg.Recover() })
	assert.Equal(t, 0, reg.RoomCount())
}

func TestSetStaleCleanupOverridesRecoverCutoffs(t *testing.T) {
	fs := newFakeStore()
	reg := NewRegistry(fs)
	reg.SetStaleCleanup(2*time.Hour, 10*time.Minute)

	before := time.Now()
	reg.Recover()

	assert.WithinDuration(t, before.Add(-2*time.Hour), fs.stalePlayingCutoff, time.Second)
	assert.WithinDuration(t, before.Add(-10*time.Minute), fs.staleWaitingCutoff, time.Second)
}

func TestSetStaleCleanupZeroValuesKeepDefaults(t *testing.T) {
	fs := newFakeStore()
	reg := NewRegistry(fs)
	reg.SetStaleCleanup(0, 0)

	before := time.Now()
	reg.Recover()

	assert.WithinDuration(t, before.Add(-defaultStalePlayingAfter), fs.stalePlayingCutoff, time.Second)
	assert.WithinDuration(t, before.Add(-defaultStaleWaitingAfter), fs.staleWaitingCutoff, time.Second)
}
