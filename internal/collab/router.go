// Event routing: every inbound event resolves an audience through the room
// index, optionally mutates the registry, and is handed to the Emitter. The
// router never emits without resolving state first, and a failed resolution
// drops the event without side effects.
package collab

import (
	"encoding/json"
	"log/slog"

	"codesync-relay/pkg/metrics"
)

// Emitter delivers one event to one connection. Implementations are expected
// to be fire-and-forget: the router never waits for an acknowledgement, and a
// delivery failure to a dead peer is the transport's concern.
type Emitter interface {
	Emit(connectionID string, event EventName, payload any)
}

// Router fans inbound events out to the right subset of peers.
type Router struct {
	registry  *Registry
	emitter   Emitter
	lifecycle *Lifecycle
	log       *slog.Logger
}

// NewRouter creates a router (and its lifecycle manager) over the given
// registry and emitter.
func NewRouter(registry *Registry, emitter Emitter, log *slog.Logger) *Router {
	return &Router{
		registry:  registry,
		emitter:   emitter,
		lifecycle: NewLifecycle(registry, emitter, log),
		log:       log,
	}
}

// Lifecycle exposes the connection lifecycle manager for the transport's
// connect/disconnect edges, which do not arrive as tagged events.
func (rt *Router) Lifecycle() *Lifecycle {
	return rt.lifecycle
}

// Dispatch routes one inbound event from the given sender connection. It must
// be called from a single event-processing goroutine; each event is handled
// to completion, registry mutation and emissions included, before the next.
func (rt *Router) Dispatch(senderID string, env Envelope) {
	metrics.EventsRouted.WithLabelValues(string(env.Event)).Inc()

	switch env.Event {
	case EventJoinRequest:
		var p JoinRequestPayload
		if !rt.decode(senderID, env, &p) {
			return
		}
		rt.lifecycle.Join(senderID, p)

	case EventSyncFileStructure:
		var p SyncFileStructurePayload
		if !rt.decode(senderID, env, &p) {
			return
		}
		target := p.TargetConnectionID
		p.TargetConnectionID = ""
		rt.emitter.Emit(target, EventSyncFileStructure, p)

	case EventDirectoryCreated, EventDirectoryUpdated, EventDirectoryRenamed,
		EventDirectoryDeleted, EventFileCreated, EventFileUpdated,
		EventFileRenamed, EventFileDeleted:
		// Tree mutations are relayed verbatim; the relay does not validate
		// or reconcile file tree state.
		rt.broadcast(senderID, env.Event, env.Payload)

	case EventUserOnline:
		rt.setStatus(senderID, env, StatusOnline)

	case EventUserOffline:
		rt.setStatus(senderID, env, StatusOffline)

	case EventSendMessage:
		var p MessagePayload
		if !rt.decode(senderID, env, &p) {
			return
		}
		rt.broadcast(senderID, EventReceiveMessage, p)

	case EventTypingStart:
		var p TypingStartPayload
		if !rt.decode(senderID, env, &p) {
			return
		}
		rt.setTyping(senderID, EventTypingStart, func(pt *Participant) {
			pt.Typing = true
			pt.CursorPosition = p.CursorPosition
		})

	case EventTypingPause:
		rt.setTyping(senderID, EventTypingPause, func(pt *Participant) {
			pt.Typing = false
		})

	case EventRequestDrawing:
		rt.broadcast(senderID, EventRequestDrawing, ConnectionPayload{ConnectionID: senderID})

	case EventSyncDrawing:
		var p SyncDrawingPayload
		if !rt.decode(senderID, env, &p) {
			return
		}
		target := p.TargetConnectionID
		p.TargetConnectionID = ""
		rt.emitter.Emit(target, EventSyncDrawing, p)

	case EventDrawingUpdate:
		rt.broadcast(senderID, EventDrawingUpdate, env.Payload)

	default:
		rt.drop(senderID, env.Event, "unknown event")
	}
}

// broadcast delivers an event to every participant in the sender's room
// except the sender itself. If the sender has no registered participant the
// event is dropped; this covers the race between a disconnect and events
// still in flight for that connection.
func (rt *Router) broadcast(senderID string, event EventName, payload any) {
	roomID, ok := rt.registry.RoomOf(senderID)
	if !ok {
		rt.drop(senderID, event, "sender not in registry")
		return
	}
	rt.broadcastToRoom(roomID, senderID, event, payload)
}

func (rt *Router) broadcastToRoom(roomID, senderID string, event EventName, payload any) {
	for _, member := range rt.registry.MembersOf(roomID) {
		if member.ConnectionID == senderID {
			continue
		}
		rt.emitter.Emit(member.ConnectionID, event, payload)
	}
}

// setStatus mutates the status of the participant named by the payload's
// connectionId, then broadcasts to that participant's room excluding the
// sender. Payload target and event sender are allowed to differ; the
// asymmetry is observed client protocol, not an accident of this code.
func (rt *Router) setStatus(senderID string, env Envelope, status Status) {
	var p ConnectionPayload
	if !rt.decode(senderID, env, &p) {
		return
	}
	if _, ok := rt.registry.Update(p.ConnectionID, func(pt *Participant) {
		pt.Status = status
	}); !ok {
		rt.drop(senderID, env.Event, "target not in registry")
		return
	}
	roomID, _ := rt.registry.RoomOf(p.ConnectionID)
	rt.broadcastToRoom(roomID, senderID, env.Event, p)
}

// setTyping mutates the sender's own record and broadcasts the entire
// updated participant, not just the delta.
func (rt *Router) setTyping(senderID string, event EventName, fn func(*Participant)) {
	updated, ok := rt.registry.Update(senderID, fn)
	if !ok {
		rt.drop(senderID, event, "sender not in registry")
		return
	}
	rt.broadcast(senderID, event, ParticipantPayload{Participant: updated})
}

func (rt *Router) decode(senderID string, env Envelope, dst any) bool {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		rt.drop(senderID, env.Event, "undecodable payload")
		return false
	}
	return true
}

// drop logs and counts a discarded event. Dropping is always silent towards
// other participants and never fatal to the process.
func (rt *Router) drop(senderID string, event EventName, reason string) {
	metrics.EventsDropped.Inc()
	rt.log.Warn("event dropped", "event", string(event), "connection", senderID, "reason", reason)
}
