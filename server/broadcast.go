package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fieldhq/fieldhq/ingest"
)

// WebSocket timeouts
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096

	// sendBufferSize bounds per-client queued events; a client that falls
	// this far behind starts missing events instead of blocking uploads
	sendBufferSize = 16
)

// ImportEvent is pushed to dashboard clients when an ingestion run completes
type ImportEvent struct {
	Type       string         `json:"type"` // "import_completed"
	Filename   string         `json:"filename"`
	Result     *ingest.Result `json:"result"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// wsClient is one connected dashboard client. All connection writes happen
// in its writePump goroutine; everything else communicates via send.
type wsClient struct {
	conn *websocket.Conn
	send chan ImportEvent

	done     chan struct{}
	doneOnce sync.Once
}

// handleWebSocket upgrades the connection and registers a dashboard client.
// The server only pushes; inbound messages are drained to service pings.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("WebSocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan ImportEvent, sendBufferSize),
		done: make(chan struct{}),
	}

	s.clientsMu.Lock()
	s.clients[client] = true
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Infow("Dashboard client connected", "clients", count)

	go s.writePump(client)
	go s.readLoop(client)
}

func (s *Server) readLoop(c *wsClient) {
	defer s.dropClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the single goroutine writing to the connection. It owns the
// ping ticker, so event writes and pings never interleave on the wire.
func (s *Server) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.dropClient(c)
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				s.logger.Warnw("Dropping dashboard client", "error", err)
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

// dropClient unregisters the client and closes its connection. Safe to call
// from both pumps and from shutdown; only the first call does the work.
func (s *Server) dropClient(c *wsClient) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()

	c.doneOnce.Do(func() { close(c.done) })
	c.conn.Close()
}

// broadcastImportCompleted queues an import event for every connected
// client. The client list is snapshotted under the lock and the sends are
// non-blocking, so a slow client never stalls the upload response.
func (s *Server) broadcastImportCompleted(filename string, result *ingest.Result) {
	event := ImportEvent{
		Type:       "import_completed",
		Filename:   filename,
		Result:     result,
		OccurredAt: time.Now().UTC(),
	}

	s.clientsMu.Lock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		select {
		case c.send <- event:
		default:
			// Buffer full - client is too far behind, skip this event
		}
	}
}
