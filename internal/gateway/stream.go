package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aegisnet/appliance/internal/auth"
	"github.com/aegisnet/appliance/internal/dfe"
	"github.com/aegisnet/appliance/internal/pta"
	"github.com/aegisnet/appliance/pkg/plugin"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

// MessageType discriminates WebSocket messages pushed to operators.
type MessageType string

const (
	MessageScanStarted    MessageType = "scan.started"
	MessageScanCompleted  MessageType = "scan.completed"
	MessageHostDiscovered MessageType = "scan.host_discovered"
	MessageProbeFailed    MessageType = "scan.probe_failed"
	MessageFlowObserved   MessageType = "traffic.flow_observed"
	MessageCaptureStarted MessageType = "traffic.capture_started"
	MessageCaptureFailed  MessageType = "traffic.capture_failed"
)

// Message is the envelope for all WebSocket messages sent to operators.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// Client represents a connected operator WebSocket session.
type Client struct {
	conn   *websocket.Conn
	send   chan Message
	logger *zap.Logger
}

// Hub manages active WebSocket connections and broadcasts messages to all of
// them. The appliance expects at most a handful of concurrent operator tabs.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates a WebSocket hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{clients: make(map[*Client]struct{}), logger: logger}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients, dropping it for any
// client whose send buffer is full rather than blocking the publisher.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("client send buffer full, dropping message")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, c.conn, msg)
			cancel()
			if err != nil {
				c.logger.Debug("websocket write error", zap.Error(err))
				return
			}
		}
	}
}

// readPump drains the connection to detect client disconnect; operators
// never send messages to the appliance over this socket.
func (c *Client) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// StreamHandler upgrades authenticated requests to WebSocket connections and
// forwards DFE/PTA event-bus traffic to every connected operator.
type StreamHandler struct {
	hub    *Hub
	tokens *auth.TokenService
	bus    plugin.EventBus
	logger *zap.Logger
}

// NewStreamHandler creates a StreamHandler and subscribes it to the event bus.
func NewStreamHandler(tokens *auth.TokenService, bus plugin.EventBus, logger *zap.Logger) *StreamHandler {
	h := &StreamHandler{hub: NewHub(logger), tokens: tokens, bus: bus, logger: logger}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers the WebSocket route on the gateway mux.
func (h *StreamHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/traffic/stream", h.handleStream)
}

// handleStream upgrades the connection to WebSocket and streams live events.
// The JWT is passed as a query parameter since the browser WebSocket API
// cannot set a custom Authorization header.
func (h *StreamHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token parameter", http.StatusUnauthorized)
		return
	}
	if _, err := h.tokens.ValidateAccessToken(token); err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{conn: conn, send: make(chan Message, 256), logger: h.logger}
	h.hub.Register(client)
	h.replayRecent(client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// recentEventSource is satisfied by *event.Bus without the gateway needing
// to import the event package directly -- it only needs this one method.
type recentEventSource interface {
	Recent(topic string) []plugin.Event
}

// replayTopics maps each bus topic the stream forwards to its WebSocket
// message type, used both for live subscriptions and catch-up replay.
var replayTopics = map[string]MessageType{
	dfe.TopicScanStarted:     MessageScanStarted,
	dfe.TopicHostDiscovered:  MessageHostDiscovered,
	dfe.TopicScanCompleted:   MessageScanCompleted,
	dfe.TopicProbeFailed:     MessageProbeFailed,
	pta.TopicFlowObserved:    MessageFlowObserved,
	pta.TopicCaptureStarted:  MessageCaptureStarted,
	pta.TopicCaptureFailed:   MessageCaptureFailed,
}

// replayRecent sends a newly connected client the last few events on each
// subscribed topic, so it isn't blank until the next scan or flow happens to
// fire. Only effective when the bus implements recentEventSource.
func (h *StreamHandler) replayRecent(client *Client) {
	source, ok := h.bus.(recentEventSource)
	if !ok {
		return
	}
	for topic, msgType := range replayTopics {
		for _, event := range source.Recent(topic) {
			select {
			case client.send <- Message{Type: msgType, Timestamp: event.Timestamp, Data: event.Payload}:
			default:
			}
		}
	}
}

// subscribeToEvents wires DFE and PTA event-bus topics to the WebSocket hub.
func (h *StreamHandler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	h.bus.Subscribe(dfe.TopicScanStarted, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(dfe.ScanStartedEvent); ok {
			h.hub.Broadcast(Message{Type: MessageScanStarted, Timestamp: event.Timestamp, Data: ev})
		}
	})
	h.bus.Subscribe(dfe.TopicHostDiscovered, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(dfe.HostDiscoveredEvent); ok {
			h.hub.Broadcast(Message{Type: MessageHostDiscovered, Timestamp: event.Timestamp, Data: ev})
		}
	})
	h.bus.Subscribe(dfe.TopicScanCompleted, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(dfe.ScanCompletedEvent); ok {
			h.hub.Broadcast(Message{Type: MessageScanCompleted, Timestamp: event.Timestamp, Data: ev})
		}
	})
	h.bus.Subscribe(dfe.TopicProbeFailed, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(dfe.ProbeFailedEvent); ok {
			h.hub.Broadcast(Message{Type: MessageProbeFailed, Timestamp: event.Timestamp, Data: ev})
		}
	})
	h.bus.Subscribe(pta.TopicFlowObserved, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(pta.FlowObservedEvent); ok {
			h.hub.Broadcast(Message{Type: MessageFlowObserved, Timestamp: event.Timestamp, Data: ev})
		}
	})
	h.bus.Subscribe(pta.TopicCaptureStarted, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(pta.CaptureStartedEvent); ok {
			h.hub.Broadcast(Message{Type: MessageCaptureStarted, Timestamp: event.Timestamp, Data: ev})
		}
	})
	h.bus.Subscribe(pta.TopicCaptureFailed, func(_ context.Context, event plugin.Event) {
		if ev, ok := event.Payload.(pta.CaptureFailedEvent); ok {
			h.hub.Broadcast(Message{Type: MessageCaptureFailed, Timestamp: event.Timestamp, Data: ev})
		}
	})

	h.logger.Info("subscribed to dfe/pta events for websocket broadcasting")
}
