package store

import "time"

// MemoryStore is the degraded-mode fallback: every write is a no-op, every
// read returns nothing. A room backed by this store is still fully
// functional — the in-memory copy held by the room package is the
// authoritative one regardless of which Store is wired in.
type MemoryStore struct{}

// NewMemoryStore returns a Store that discards everything it is given.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) SaveRoom(RoomRecord, []MemberRecord, GameStateRecord) error { return nil }
func (m *MemoryStore) LoadRooms() ([]PersistedRoom, error)                        { return nil, nil }
func (m *MemoryStore) DeleteRoom(string) error                                    { return nil }
func (m *MemoryStore) TransitionStalePlaying(time.Time) error                     { return nil }
func (m *MemoryStore) DeleteStaleWaiting(time.Time) error                         { return nil }
func (m *MemoryStore) Close() error                                              { return nil }
