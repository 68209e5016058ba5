package network

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/twister/engine"
	"github.com/lixenwraith/twister/event"
	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/parameter"
)

// Message type tags
const (
	MessageSnapshot = "snapshot"
	MessageEvent    = "event"
)

// SnapshotMessage is the viewer-facing game state
type SnapshotMessage struct {
	Type        string   `json:"type"`
	State       string   `json:"state"`
	Phase       string   `json:"phase,omitempty"`
	Target      string   `json:"target,omitempty"`
	Held        []string `json:"held"`
	RemainingMs int64    `json:"remaining_ms"`
	Score       int      `json:"score"`
	Lives       int      `json:"lives"`
	MaxLives    int      `json:"max_lives"`
	Reason      string   `json:"reason,omitempty"`
}

// EventMessage relays one game event
type EventMessage struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
	Score  int    `json:"score"`
	Lives  int    `json:"lives"`
}

// snapshotGranularity coarsens the countdown so idle ticks don't flood viewers
const snapshotGranularity = 100 * time.Millisecond

// NewSnapshotMessage converts a game snapshot for the wire
func NewSnapshotMessage(snap game.Snapshot) SnapshotMessage {
	msg := SnapshotMessage{
		Type:        MessageSnapshot,
		State:       snap.State.String(),
		Held:        keyNames(snap.Held),
		RemainingMs: snap.Remaining.Truncate(snapshotGranularity).Milliseconds(),
		Score:       snap.Score,
		Lives:       snap.Lives,
		MaxLives:    snap.MaxLives,
		Reason:      snap.Reason.String(),
	}
	if snap.State == game.StatePressing || snap.State == game.StateReleasing {
		msg.Phase = snap.Phase.String()
		msg.Target = snap.Target.String()
	}
	return msg
}

func keyNames(keys []keyboard.Key) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}

// viewer is one read-only websocket client
type viewer struct {
	conn *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newViewer(conn *websocket.Conn) *viewer {
	return &viewer{
		conn: conn,
		send: make(chan []byte, parameter.SpectatorQueue),
		done: make(chan struct{}),
	}
}

// close signals the write pump, which sends the close frame and closes the connection
func (v *viewer) close() {
	v.closeOnce.Do(func() { close(v.done) })
}

// Spectator broadcasts snapshots and events to websocket viewers
// Publish and HandleEvent run on the game goroutine; viewers never feed input back
type Spectator struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	last    []byte
	closed  bool

	server *http.Server
}

// NewSpectator creates a hub with no viewers
func NewSpectator() *Spectator {
	return &Spectator{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		viewers: make(map[*viewer]struct{}),
	}
}

// Start listens on addr and returns the bound address
func (s *Spectator) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("spectate listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", s)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: parameter.SpectatorWrite,
	}

	engine.Go(func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[spectate] server stopped: %v", err)
		}
	})

	log.Printf("[spectate] listening on %s", ln.Addr())
	return ln.Addr().String(), nil
}

// Close disconnects every viewer and stops the server
func (s *Spectator) Close() error {
	s.mu.Lock()
	s.closed = true
	viewers := make([]*viewer, 0, len(s.viewers))
	for v := range s.viewers {
		viewers = append(viewers, v)
	}
	s.viewers = make(map[*viewer]struct{})
	s.mu.Unlock()

	for _, v := range viewers {
		v.close()
	}
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Viewers returns the number of connected viewers
func (s *Spectator) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// Frame implements engine.FrameSink
func (s *Spectator) Frame(snap game.Snapshot) {
	s.Publish(snap)
}

// Publish sends the snapshot if it differs from the previous one
func (s *Spectator) Publish(snap game.Snapshot) {
	data, err := json.Marshal(NewSnapshotMessage(snap))
	if err != nil {
		log.Printf("[spectate] encode snapshot: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes.Equal(data, s.last) {
		return
	}
	s.last = data
	s.broadcastLocked(data)
}

// HandleEvent implements event.Handler
func (s *Spectator) HandleEvent(ev event.GameEvent) {
	msg := EventMessage{
		Type:   MessageEvent,
		Event:  ev.Type.String(),
		Reason: ev.Reason.String(),
		Score:  ev.Score,
		Lives:  ev.Lives,
	}
	if ev.Key != keyboard.None {
		msg.Key = ev.Key.String()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[spectate] encode event: %v", err)
		return
	}

	s.mu.Lock()
	s.broadcastLocked(data)
	s.mu.Unlock()
}

// EventTypes implements event.Handler
func (s *Spectator) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSessionStarted,
		event.EventRoundStarted,
		event.EventReward,
		event.EventPenalty,
		event.EventGameOver,
		event.EventWin,
		event.EventReset,
	}
}

// broadcastLocked queues data on every viewer, dropping viewers that fell behind
func (s *Spectator) broadcastLocked(data []byte) {
	for v := range s.viewers {
		select {
		case v.send <- data:
		default:
			log.Printf("[spectate] dropping slow viewer")
			delete(s.viewers, v)
			v.close()
		}
	}
}

// ServeHTTP upgrades the request and serves one viewer until it disconnects
func (s *Spectator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[spectate] upgrade: %v", err)
		return
	}

	v := newViewer(conn)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.viewers[v] = struct{}{}
	if s.last != nil {
		v.send <- s.last
	}
	s.mu.Unlock()

	engine.Go(func() { s.writePump(v) })
	s.readPump(v)
}

func (s *Spectator) remove(v *viewer) {
	s.mu.Lock()
	delete(s.viewers, v)
	s.mu.Unlock()
	v.close()
}

// readPump discards viewer input and tracks pongs for liveness
func (s *Spectator) readPump(v *viewer) {
	defer s.remove(v)

	pongWait := parameter.SpectatorPing + parameter.SpectatorWrite
	v.conn.SetReadLimit(512)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Spectator) writePump(v *viewer) {
	ticker := time.NewTicker(parameter.SpectatorPing)
	defer func() {
		ticker.Stop()
		s.remove(v)
		v.conn.Close()
	}()

	for {
		select {
		case <-v.done:
			_ = v.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case data := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(parameter.SpectatorWrite))
			if err := v.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := v.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(parameter.SpectatorWrite)); err != nil {
				return
			}
		}
	}
}
