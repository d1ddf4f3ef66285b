// Package server coordinates client registration, event routing, and
// connection cleanup for the CodeSync relay via the Hub type.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codesync-relay/internal/collab"
)

// Hub owns every WebSocket client and the collaboration engine behind them.
// A single Run goroutine serializes client registration, unregistration, and
// inbound event dispatch, so each event is handled to completion — registry
// reads, mutations, and emissions included — before the next one starts.
type Hub struct {
	cfg      Config
	log      *slog.Logger
	origin   *originPolicy
	upgrader websocket.Upgrader

	registry *collab.Registry
	router   *collab.Router

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame

	mutex  sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub ready to manage connections. The hub itself is the
// router's emitter, closing the loop between audience resolution and
// delivery.
func NewHub(cfg Config, log *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		cfg:        cfg,
		log:        log,
		origin:     newOriginPolicy(cfg.AllowedOrigins, log),
		registry:   collab.NewRegistry(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.origin.check,
	}
	h.router = collab.NewRouter(h.registry, h, log)
	return h
}

// Registry exposes the participant registry for read-only inspection.
func (h *Hub) Registry() *collab.Registry {
	return h.registry
}

// Emit implements collab.Emitter: it wraps the payload in the wire envelope
// and queues it on the target client without blocking. Delivery is best
// effort; a full buffer or a vanished client drops the frame.
func (h *Hub) Emit(connectionID string, event collab.EventName, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshaling event payload", "event", string(event), "err", err)
		return
	}
	frame, err := json.Marshal(collab.Envelope{Event: event, Payload: raw})
	if err != nil {
		h.log.Error("marshaling event envelope", "event", string(event), "err", err)
		return
	}

	if !h.safeSend(connectionID, frame) {
		h.log.Debug("dropped outbound event", "event", string(event), "connection", connectionID)
	}
}

func (h *Hub) safeSend(connectionID string, frame []byte) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	client, exists := h.clients[connectionID]
	if !exists || client.closed {
		return false
	}

	select {
	case client.send <- frame:
		return true
	default:
		return false
	}
}

// Run starts the hub's event loop. This method should be called in a
// separate goroutine as it runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				h.log.Warn("received nil client registration; skipping")
				continue
			}
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case frame := <-h.inbound:
			h.dispatch(frame)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	client.closed = false
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mutex.Unlock()
	h.log.Info("client connected", "connection", client.id, "addr", client.addr, "total", clientCount)

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// removeClient runs disconnect cleanup before the client disappears from the
// map: peers must be notified while the participant record still exists, and
// registry removal happens on this same goroutine so no concurrent audience
// lookup can observe a half-removed member.
func (h *Hub) removeClient(client *Client) {
	h.router.Lifecycle().Disconnect(client.id)

	h.mutex.Lock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		client.closed = true
		clientCount := len(h.clients)
		h.mutex.Unlock()
		// Close the channel after releasing the lock.
		close(client.send)
		h.log.Info("client disconnected", "connection", client.id, "total", clientCount)
	} else {
		h.mutex.Unlock()
	}
}

// dispatch decodes one inbound frame and hands it to the router. Undecodable
// frames are dropped here; the router handles everything else.
func (h *Hub) dispatch(frame inboundFrame) {
	env, err := collab.DecodeEnvelope(frame.data)
	if err != nil {
		h.log.Warn("undecodable frame", "connection", frame.senderID, "err", err)
		return
	}
	h.router.Dispatch(frame.senderID, env)
}

// shutdownClients closes all active client connections.
func (h *Hub) shutdownClients() {
	h.log.Info("shutting down all client connections")

	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					h.log.Error("closing client connection", "connection", client.id, "err", err)
				}
			}
		}
	}

	h.log.Info("closed client connections", "count", len(clients))
}

// Shutdown initiates graceful shutdown of the hub and waits for all
// goroutines to complete, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("initiating hub shutdown")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timeout reached; some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
