// internal/httpserver/events.go
//
// WebSocket notification stream for a session.
//
// A Hub exists per session and implements session.Notifier: every
// notification becomes an Event broadcast to the connected clients.
// Broadcasts never block the game; a client whose send buffer is full is
// dropped. Each client runs a write pump (messages + pings) and a read pump
// that only watches for the peer going away.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Clients send nothing meaningful; keep reads small
	maxMessageSize = 512

	// Size of the send channel buffer
	sendBufferSize = 64
)

// Event types pushed to clients.
const (
	EventSnapshot     = "SNAPSHOT"
	EventGuessResult  = "GUESS_RESULT"
	EventHintRevealed = "HINT_REVEALED"
	EventGameEnded    = "GAME_ENDED"
	EventStateChanged = "STATE_CHANGED"
)

// Event is the wire envelope of a notification.
type Event struct {
	Type      string    `json:"type"`
	GameID    string    `json:"gameId"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GuessPayload accompanies GUESS_RESULT.
type GuessPayload struct {
	Letter  string       `json:"letter"`
	Outcome game.Outcome `json:"outcome"`
}

// HintPayload accompanies HINT_REVEALED.
type HintPayload struct {
	Letter string `json:"letter"`
}

// PhasePayload accompanies STATE_CHANGED.
type PhasePayload struct {
	Phase session.Phase `json:"phase"`
}

func encodeEvent(typ, gameID string, payload any) ([]byte, error) {
	return json.Marshal(Event{Type: typ, GameID: gameID, Payload: payload, Timestamp: time.Now().UTC()})
}

// Hub fans a session's notifications out to its WebSocket clients.
type Hub struct {
	gameID  string
	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub returns an empty hub for gameID.
func NewHub(gameID string) *Hub {
	return &Hub{gameID: gameID, clients: make(map[*Client]struct{})}
}

func (h *Hub) GuessResult(letter rune, outcome game.Outcome) {
	h.Broadcast(EventGuessResult, GuessPayload{Letter: string(letter), Outcome: outcome})
}

func (h *Hub) HintRevealed(letter rune) {
	h.Broadcast(EventHintRevealed, HintPayload{Letter: string(letter)})
}

func (h *Hub) GameEnded(summary session.Summary) {
	h.Broadcast(EventGameEnded, summary)
}

func (h *Hub) StateChanged(phase session.Phase) {
	h.Broadcast(EventStateChanged, PhasePayload{Phase: phase})
}

// Broadcast sends an event to every client without blocking.
func (h *Hub) Broadcast(typ string, payload any) {
	data, err := encodeEvent(typ, h.gameID, payload)
	if err != nil {
		log.Error().Err(err).Str("session", h.gameID).Str("type", typ).Msg("encode event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.trySend(data) {
			log.Warn().Str("session", h.gameID).Msg("send buffer full, client dropped")
			delete(h.clients, c)
			c.close()
		}
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client; later registrations are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
	}
	h.clients = make(map[*Client]struct{})
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Client is one WebSocket connection subscribed to a hub.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *Client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump discards inbound messages and returns once the peer is gone.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

// writePump pumps queued events and pings to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEvents upgrades GET /games/{id}/events and streams the session's
// notifications. The first message is a SNAPSHOT of the current state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	c, lg, ok := s.lookup(w, r)
	if !ok {
		return
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.Server.ClientOrigin
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}

	// The snapshot is queued and the client registered under the session
	// lock, so it is always the first event and none are missed.
	client := newClient(conn)
	registered := false
	c.View(func(snap session.Snapshot) {
		data, err := encodeEvent(EventSnapshot, c.ID(), snap)
		if err != nil {
			log.Error().Err(err).Str("session", c.ID()).Msg("encode snapshot")
			return
		}
		client.trySend(data)
		registered = lg.hub.register(client)
	})
	if !registered {
		client.close()
		return
	}
	log.Debug().Str("session", c.ID()).Msg("event stream connected")

	go client.writePump()
	client.readPump(lg.hub)
}

var _ session.Notifier = (*Hub)(nil)

// eventsPath is the stream URL for a session, used in responses.
func eventsPath(id string) string { return "/games/" + id + "/events" }
