// Package collab implements the room-scoped presence and broadcast engine of
// the CodeSync relay: the participant registry, the room index derived from
// it, and the routing rules that decide which connections receive each event.
//
// The package is transport-agnostic. Delivery happens through the Emitter
// interface, which the WebSocket hub implements; nothing here blocks on I/O.
package collab
