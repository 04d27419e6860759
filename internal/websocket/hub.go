package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ClusterChannel = "cogniflow:workspace_events"

// Hub pushes workspace events to every connected browser. With a redis client it also
// relays them to the hubs of other instances.
type Hub struct {
	instanceId string

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	rdb    *redis.Client
	logger logger.ILogger
}

type frame struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// NewHub builds a hub. rdb may be nil for a single instance deployment.
func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		instanceId: uuid.NewString(),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"client_id": client.Id, "clients": n})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client unregistered", map[string]interface{}{"client_id": client.Id, "clients": n})
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers event to local clients and, when clustered, to the other instances.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(frame{Type: event.EventType(), Data: event.Payload(), OccurredAt: event.Timestamp()})
	if err != nil {
		return err
	}

	h.deliver(data)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.instanceId, Message: data})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, ClusterChannel, payload).Err()
}

func (h *Hub) deliver(data []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.Send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// Unregistering under the read lock would deadlock Run.
	for _, c := range slow {
		h.logger.Warn("HUB", "Client send buffer full, dropping client", map[string]interface{}{"client_id": c.Id})
		go func(c *Client) { h.unregister <- c }(c)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var cm clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
				h.logger.Warn("HUB", "Invalid cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Our own publishes were already delivered locally.
			if cm.Origin == h.instanceId {
				continue
			}
			h.deliver(cm.Message)
		}
	}
}
