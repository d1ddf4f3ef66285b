package collab

// Status is a participant's connection status as seen by its room peers.
type Status string

// Participant connection statuses.
const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Participant is one connected collaborator's live state within a room.
// ConnectionID is assigned by the transport at connection time and is the
// registry's primary key; RoomID is set once at join and never changes for
// the lifetime of the connection.
type Participant struct {
	ConnectionID   string `json:"connectionId"`
	RoomID         string `json:"roomId"`
	Username       string `json:"username"`
	Status         Status `json:"status"`
	Typing         bool   `json:"typing"`
	CursorPosition int    `json:"cursorPosition"`
	// CurrentFile is carried for client compatibility but no event in the
	// vocabulary updates it after join; empty means unset.
	CurrentFile string `json:"currentFile,omitempty"`
}
