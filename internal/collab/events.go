// Event vocabulary shared by the relay and its clients: string-tagged events
// carried in a small JSON envelope. The set is closed; the router dispatches
// over it with a single switch so new events are a compile-visible change.
package collab

import "encoding/json"

// EventName tags an event in the wire envelope.
type EventName string

// The full inbound/outbound event vocabulary.
const (
	// Lifecycle.
	EventJoinRequest      EventName = "join-request"
	EventUsernameExists   EventName = "username-exists"
	EventJoinAccepted     EventName = "join-accepted"
	EventUserJoined       EventName = "user-joined"
	EventUserDisconnected EventName = "user-disconnected"

	// File tree. Payloads are relayed verbatim; the relay never inspects or
	// reconciles tree state, last-write-wins is the clients' concern.
	EventSyncFileStructure EventName = "sync-file-structure"
	EventDirectoryCreated  EventName = "directory-created"
	EventDirectoryUpdated  EventName = "directory-updated"
	EventDirectoryRenamed  EventName = "directory-renamed"
	EventDirectoryDeleted  EventName = "directory-deleted"
	EventFileCreated       EventName = "file-created"
	EventFileUpdated       EventName = "file-updated"
	EventFileRenamed       EventName = "file-renamed"
	EventFileDeleted       EventName = "file-deleted"

	// Presence and chat.
	EventUserOnline  EventName = "user-online"
	EventUserOffline EventName = "user-offline"
	EventSendMessage EventName = "send-message"
	// Chat messages are delivered to peers under a different name than they
	// are sent with; the payload is untouched.
	EventReceiveMessage EventName = "receive-message"
	EventTypingStart    EventName = "typing-start"
	EventTypingPause    EventName = "typing-pause"

	// Drawing. request-drawing announces a late joiner to the room, any peer
	// answers with a point-to-point sync-drawing, incremental updates are
	// room broadcasts.
	EventRequestDrawing EventName = "request-drawing"
	EventSyncDrawing    EventName = "sync-drawing"
	EventDrawingUpdate  EventName = "drawing-update"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event   EventName       `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeEnvelope parses a raw inbound frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(data, &env)
	return env, err
}

// JoinRequestPayload is the inbound payload of join-request.
type JoinRequestPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// JoinAcceptedPayload answers a successful join. Members includes the joiner
// itself and is the only way a joining client learns about existing peers.
type JoinAcceptedPayload struct {
	Participant Participant   `json:"participant"`
	Members     []Participant `json:"members"`
}

// ParticipantPayload carries a full participant record (user-joined,
// user-disconnected, typing-start, typing-pause).
type ParticipantPayload struct {
	Participant Participant `json:"participant"`
}

// ConnectionPayload names a connection (user-online, user-offline inbound
// and outbound, request-drawing outbound).
type ConnectionPayload struct {
	ConnectionID string `json:"connectionId"`
}

// SyncFileStructurePayload is the point-to-point file tree catch-up sent to a
// late joiner. TargetConnectionID addresses the recipient on the way in and
// is stripped from the delivered copy.
type SyncFileStructurePayload struct {
	FileStructure      json.RawMessage `json:"fileStructure"`
	OpenFiles          json.RawMessage `json:"openFiles"`
	ActiveFile         json.RawMessage `json:"activeFile"`
	TargetConnectionID string          `json:"targetConnectionId,omitempty"`
}

// MessagePayload wraps a chat message, relayed opaquely.
type MessagePayload struct {
	Message json.RawMessage `json:"message"`
}

// TypingStartPayload is the inbound payload of typing-start.
type TypingStartPayload struct {
	CursorPosition int `json:"cursorPosition"`
}

// SyncDrawingPayload is the point-to-point drawing catch-up; like the file
// tree sync, the target field only exists inbound.
type SyncDrawingPayload struct {
	DrawingData        json.RawMessage `json:"drawingData"`
	TargetConnectionID string          `json:"targetConnectionId,omitempty"`
}
