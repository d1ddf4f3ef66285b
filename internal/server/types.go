// Package server defines shared connection-level types and utility helpers
// reused across client and hub logic.
package server

import "strings"

// inboundFrame is one raw frame read from a connection, tagged with the
// sending connection's ID so the hub's event loop can route it.
type inboundFrame struct {
	senderID string
	data     []byte
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
