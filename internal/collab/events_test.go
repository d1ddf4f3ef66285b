package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	req := require.New(t)

	env, err := DecodeEnvelope([]byte(`{"event":"typing-start","payload":{"cursorPosition":7}}`))
	req.NoError(err)
	req.Equal(EventTypingStart, env.Event)

	var p TypingStartPayload
	req.NoError(json.Unmarshal(env.Payload, &p))
	req.Equal(7, p.CursorPosition)
}

func TestDecodeEnvelope_Invalid_Frame(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json`))
	require.Error(t, err)
}

func TestParticipant_Wire_Shape(t *testing.T) {
	req := require.New(t)

	raw, err := json.Marshal(Participant{
		ConnectionID: "c1",
		RoomID:       "r1",
		Username:     "alice",
		Status:       StatusOnline,
	})
	req.NoError(err)

	// Clients key on these exact field names; currentFile is omitted while
	// unset.
	req.JSONEq(`{
		"connectionId": "c1",
		"roomId": "r1",
		"username": "alice",
		"status": "online",
		"typing": false,
		"cursorPosition": 0
	}`, string(raw))
}
