// Connection lifecycle: join admission and disconnect cleanup, the two edge
// transitions that do not arrive as room-scoped events.
package collab

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"codesync-relay/pkg/metrics"
)

// Lifecycle admits joining connections into the registry and cleans up after
// disconnecting ones. Both paths run on the hub's event loop, so registry
// changes and room membership changes are a single atomic step.
type Lifecycle struct {
	registry *Registry
	emitter  Emitter
	validate *validator.Validate
	log      *slog.Logger
}

// NewLifecycle creates a lifecycle manager over the given registry and
// emitter.
func NewLifecycle(registry *Registry, emitter Emitter, log *slog.Logger) *Lifecycle {
	return &Lifecycle{
		registry: registry,
		emitter:  emitter,
		validate: validator.New(),
		log:      log,
	}
}

// Join admits a connection into a room. A username already present in the
// room rejects the request with a self-only username-exists event and leaves
// the registry untouched; the connection stays open and may retry under a
// different name. On success the new participant is inserted, the room is
// notified with user-joined, and the joiner receives join-accepted with the
// full member list (itself included) — the sole way it learns about peers.
func (l *Lifecycle) Join(connectionID string, req JoinRequestPayload) {
	if err := l.validate.Struct(req); err != nil {
		metrics.EventsDropped.Inc()
		l.log.Warn("join rejected", "connection", connectionID, "reason", "invalid payload", "err", err)
		return
	}

	if l.registry.UsernameTaken(req.RoomID, req.Username) {
		l.log.Info("join rejected", "connection", connectionID, "room", req.RoomID,
			"username", req.Username, "reason", "username taken")
		l.emitter.Emit(connectionID, EventUsernameExists, struct{}{})
		return
	}

	participant := Participant{
		ConnectionID:   connectionID,
		RoomID:         req.RoomID,
		Username:       req.Username,
		Status:         StatusOnline,
		Typing:         false,
		CursorPosition: 0,
	}
	if err := l.registry.Insert(participant); err != nil {
		// A second join-request on an already admitted connection.
		l.log.Warn("join rejected", "connection", connectionID, "reason", err.Error())
		return
	}
	metrics.Participants.Set(float64(l.registry.Len()))

	members := l.registry.MembersOf(req.RoomID)
	for _, member := range members {
		if member.ConnectionID == connectionID {
			continue
		}
		l.emitter.Emit(member.ConnectionID, EventUserJoined, ParticipantPayload{Participant: participant})
	}
	l.emitter.Emit(connectionID, EventJoinAccepted, JoinAcceptedPayload{
		Participant: participant,
		Members:     members,
	})
	l.log.Info("participant joined", "connection", connectionID, "room", req.RoomID, "username", req.Username)
}

// Disconnect removes a connection's participant, notifying its room peers
// first so the broadcast still carries the full last-known record. A
// connection that never completed a join is a no-op.
func (l *Lifecycle) Disconnect(connectionID string) {
	participant, ok := l.registry.Get(connectionID)
	if !ok {
		return
	}

	for _, member := range l.registry.MembersOf(participant.RoomID) {
		if member.ConnectionID == connectionID {
			continue
		}
		l.emitter.Emit(member.ConnectionID, EventUserDisconnected, ParticipantPayload{Participant: participant})
	}

	l.registry.Remove(connectionID)
	metrics.Participants.Set(float64(l.registry.Len()))
	l.log.Info("participant left", "connection", connectionID, "room", participant.RoomID, "username", participant.Username)
}
