package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Events pushed to subscribers
const (
	EventSubscribed    = "subscribed"
	EventWorldReloaded = "world_reloaded"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	World    string      `json:"world"`
	Revision string      `json:"revision,omitempty"`
	Event    string      `json:"event"`
	Data     interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client subscribed to one world
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	world string
}

type countRequest struct {
	world string
	reply chan int
}

// Hub maintains the set of active clients and broadcasts world events.
// All access to the worlds map happens on the Run goroutine.
type Hub struct {
	// Registered clients by world id
	worlds map[string]map[*Client]bool

	// Outbound messages for subscribers
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	count chan countRequest
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		worlds:     make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan countRequest),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.count:
			req.reply <- len(h.worlds[req.world])
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to a world
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, world string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 256),
		world: world,
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// BroadcastWorld sends an event to all clients subscribed to a world
func (h *Hub) BroadcastWorld(world, revision, event string, data interface{}) {
	h.broadcast <- &Message{
		World:    world,
		Revision: revision,
		Event:    event,
		Data:     data,
	}
}

// ClientCount returns the number of clients subscribed to a world.
// The hub must be running.
func (h *Hub) ClientCount(world string) int {
	reply := make(chan int)
	h.count <- countRequest{world: world, reply: reply}
	return <-reply
}

// registerClient adds a client to a world and greets it
func (h *Hub) registerClient(client *Client) {
	if h.worlds[client.world] == nil {
		h.worlds[client.world] = make(map[*Client]bool)
	}
	h.worlds[client.world][client] = true

	log.Printf("Client registered for world %s (total clients: %d)",
		client.world, len(h.worlds[client.world]))

	h.deliver(client, &Message{World: client.world, Event: EventSubscribed})
}

// unregisterClient removes a client from a world
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.worlds[client.world]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty worlds
			if len(clients) == 0 {
				delete(h.worlds, client.world)
			}

			log.Printf("Client unregistered from world %s (remaining clients: %d)",
				client.world, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients of a world
func (h *Hub) broadcastMessage(message *Message) {
	if clients, ok := h.worlds[message.World]; ok {
		for client := range clients {
			h.deliver(client, message)
		}
	}
}

// deliver queues a message for one client, dropping clients that fall behind
func (h *Hub) deliver(client *Client, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}

	select {
	case client.send <- data:
	default:
		// Client's send channel is full, close it
		h.unregisterClient(client)
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Subscribers only listen; reads keep the connection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
