// Package stream broadcasts published events to websocket clients.
package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = pongTimeout * 9 / 10
	bufferSize   = 32
)

type client struct {
	topic string
	send  chan []byte
}

func (c *client) wants(topic string) bool {
	return c.topic == ports.UnspecifiedTopic || c.topic == ports.AnyTopic ||
		c.topic == topic
}

// Hub is a ports.Publisher fanning out messages to the connected clients.
// Clients whose buffer is full are dropped.
type Hub struct {
	lock    *sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		lock:    &sync.RWMutex{},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Publish(topic, message string) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	for c := range h.clients {
		if !c.wants(topic) {
			continue
		}
		select {
		case c.send <- []byte(message):
		default:
			log.Debug("stream: dropping slow client")
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}

// Serve streams the messages of topic to conn until the connection breaks or
// the hub is closed. It takes ownership of conn.
func (h *Hub) Serve(conn *websocket.Conn, topic string) {
	c := &client{topic, make(chan []byte, bufferSize)}
	if !h.register(c) {
		//nolint
		conn.Close()
		return
	}
	defer h.unregister(c)

	go readPump(conn)
	writePump(conn, c.send)
}

func (h *Hub) NumClients() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) register(c *client) bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards incoming messages, it only serves to process control
// frames and detect disconnections.
func readPump(conn *websocket.Conn) {
	//nolint
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			//nolint
			conn.Close()
			return
		}
	}
}

func writePump(conn *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		//nolint
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			//nolint
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				//nolint
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			//nolint
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
