// The registry is the authoritative in-memory store of connected
// participants. The room index (MembersOf, RoomOf) is a pure derivation over
// it, recomputed per call; index and registry cannot diverge because the
// index holds no state of its own.
package collab

import (
	"errors"
	"sync"

	"github.com/samber/lo"
)

// ErrConnectionExists is returned by Insert when a participant with the same
// connection ID is already registered.
var ErrConnectionExists = errors.New("collab: connection already registered")

// Registry maps connection IDs to participants. It preserves insertion order
// so that room listings are deterministic. All methods are safe for
// concurrent use, though in normal operation every mutation comes from the
// hub's single event loop.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]Participant
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byConn: make(map[string]Participant)}
}

// Insert registers a participant keyed by its connection ID. It returns
// ErrConnectionExists if the connection is already present; a connection has
// at most one live participant.
func (r *Registry) Insert(p Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[p.ConnectionID]; exists {
		return ErrConnectionExists
	}
	r.byConn[p.ConnectionID] = p
	r.order = append(r.order, p.ConnectionID)
	return nil
}

// Remove deletes the participant for the given connection ID and returns the
// removed record. The second return value is false if no such participant
// was registered.
func (r *Registry) Remove(connectionID string) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byConn[connectionID]
	if !ok {
		return Participant{}, false
	}
	delete(r.byConn, connectionID)
	r.order = lo.Without(r.order, connectionID)
	return p, true
}

// Get returns the participant for the given connection ID.
func (r *Registry) Get(connectionID string) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byConn[connectionID]
	return p, ok
}

// Update applies fn to the participant matched by connection ID and returns
// the updated record. No observer ever sees a partially applied update; the
// mutation happens under the write lock.
func (r *Registry) Update(connectionID string, fn func(*Participant)) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byConn[connectionID]
	if !ok {
		return Participant{}, false
	}
	fn(&p)
	r.byConn[connectionID] = p
	return p, true
}

// Len returns the number of registered participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// MembersOf returns the participants of a room in registry insertion order.
// Rooms are implicit: a room is the set of participants sharing a room ID,
// and an unknown room simply yields an empty slice.
func (r *Registry) MembersOf(roomID string) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := lo.Map(r.order, func(id string, _ int) Participant { return r.byConn[id] })
	return lo.Filter(all, func(p Participant, _ int) bool { return p.RoomID == roomID })
}

// RoomOf resolves the room a connection has joined. The second return value
// is false when the connection has no registered participant.
func (r *Registry) RoomOf(connectionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byConn[connectionID]
	if !ok {
		return "", false
	}
	return p.RoomID, true
}

// UsernameTaken reports whether any participant in the room already uses the
// given display name.
func (r *Registry) UsernameTaken(roomID, username string) bool {
	return lo.ContainsBy(r.MembersOf(roomID), func(p Participant) bool {
		return p.Username == username
	})
}
