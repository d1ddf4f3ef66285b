package collab

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// emission is one recorded delivery to one connection.
type emission struct {
	ConnectionID string
	Event        EventName
	Payload      any
}

// fakeEmitter records emissions in order; tests assert over the recording.
type fakeEmitter struct {
	emissions []emission
}

func (f *fakeEmitter) Emit(connectionID string, event EventName, payload any) {
	f.emissions = append(f.emissions, emission{
		ConnectionID: connectionID,
		Event:        event,
		Payload:      payload,
	})
}

func (f *fakeEmitter) reset() {
	f.emissions = nil
}

// to returns everything delivered to the given connection.
func (f *fakeEmitter) to(connectionID string) []emission {
	return lo.Filter(f.emissions, func(e emission, _ int) bool {
		return e.ConnectionID == connectionID
	})
}

// named returns everything delivered under the given event name.
func (f *fakeEmitter) named(event EventName) []emission {
	return lo.Filter(f.emissions, func(e emission, _ int) bool {
		return e.Event == event
	})
}

func newTestRouter() (*Router, *Registry, *fakeEmitter) {
	registry := NewRegistry()
	emitter := &fakeEmitter{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(registry, emitter, log), registry, emitter
}

func envelope(t *testing.T, event EventName, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Event: event, Payload: raw}
}

// join admits a connection into a room through the real dispatch path.
func join(t *testing.T, rt *Router, connectionID, roomID, username string) {
	t.Helper()
	rt.Dispatch(connectionID, envelope(t, EventJoinRequest, JoinRequestPayload{
		RoomID:   roomID,
		Username: username,
	}))
}
