// Package server implements the WebSocket transport of the CodeSync relay.
//
// The implementation is organized into specialized files for configuration,
// hub management, clients, routing, and HTTP handlers. The hub bridges the
// transport to the collab package: it assigns connection IDs, funnels every
// frame through one event loop, and delivers the router's emissions back to
// the right connections.
package server
