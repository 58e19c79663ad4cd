package service

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed to connected dashboards.
const (
	EventWidgetRefreshed     = "widget_refreshed"
	EventAlertCreated        = "alert_created"
	EventInsightCreated      = "insight_created"
	EventNotificationCreated = "notification_created"
	EventLayoutSwitched      = "layout_switched"
	EventExportCompleted     = "export_completed"
)

// HubEvent is an event sent over WebSocket. Delivery is best effort; slow
// clients are disconnected rather than back-pressuring the engine.
type HubEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// HubClient is one WebSocket client connection.
type HubClient struct {
	ID   string
	Conn *websocket.Conn
	Send chan *HubEvent
	hub  *EventHub
}

// EventHub fans engine events out to all connected clients.
type EventHub struct {
	clients    map[string]*HubClient
	register   chan *HubClient
	unregister chan *HubClient
	broadcast  chan *HubEvent
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewEventHub creates a new hub.
func NewEventHub(logger *zap.Logger) *EventHub {
	return &EventHub{
		clients:    make(map[string]*HubClient),
		register:   make(chan *HubClient),
		unregister: make(chan *HubClient),
		broadcast:  make(chan *HubEvent, 256),
		logger:     logger,
	}
}

// Run starts the hub loop; it returns when ctx is cancelled.
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.broadcast:
			h.send(event)

		case <-ctx.Done():
			h.logger.Info("event hub shutting down")
			h.closeAll()
			return
		}
	}
}

// Broadcast queues an event for delivery to every client. Non-blocking:
// if the hub is saturated the event is dropped, matching the engine's
// no-delivery-guarantee contract.
func (h *EventHub) Broadcast(eventType string, data any) {
	event := &HubEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("event hub saturated, dropping event", zap.String("type", eventType))
	}
}

// Register attaches a new client to the hub.
func (h *EventHub) Register(client *HubClient) {
	client.hub = h
	h.register <- client
}

// Unregister detaches a client.
func (h *EventHub) Unregister(client *HubClient) {
	h.unregister <- client
}

func (h *EventHub) addClient(client *HubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("client connected", zap.String("client_id", client.ID))
}

func (h *EventHub) removeClient(client *HubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; exists {
		delete(h.clients, client.ID)
		close(client.Send)
		h.logger.Info("client disconnected", zap.String("client_id", client.ID))
	}
}

func (h *EventHub) send(event *HubEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		select {
		case client.Send <- event:
		default:
			// Slow consumer; drop the event for this client.
			h.logger.Warn("dropping event for slow client", zap.String("client_id", id))
		}
	}
}

func (h *EventHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		_ = client.Conn.Close()
		delete(h.clients, id)
	}
}

// WritePump pumps hub events to the client's connection. Runs as one
// goroutine per client; exits when the send channel is closed.
func (c *HubClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains the connection and unregisters on close.
func (c *HubClient) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
