// Package remote exposes the event bridge and remote-control actions over a
// websocket.
package remote

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jscyril/golang_sound_manager/api"
)

const writeTimeout = 5 * time.Second

// Actor performs a named remote-control action
type Actor interface {
	Do(action string) error
}

// Message is one bridge envelope as sent to clients
type Message struct {
	Channel string        `json:"channel"`
	Event   api.EventType `json:"event"`
	Data    api.EventData `json:"data"`
}

// Request is a client command
type Request struct {
	Action string `json:"action"`
}

// Server streams player and recorder events to websocket clients and
// forwards their actions to an Actor.
type Server struct {
	source   api.EventSource
	actor    Actor
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*websocket.Conn
}

func NewServer(source api.EventSource, actor Actor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		source: source,
		actor:  actor,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

// Handler returns the HTTP handler serving the /ws endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeClients()
	}()

	s.logger.Info("remote control listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	s.logger.Info("remote client connected", "client", id, "addr", r.RemoteAddr)
	s.serveClient(id, conn)
}

// serveClient owns all writes to conn; the read loop hands replies over
func (s *Server) serveClient(id string, conn *websocket.Conn) {
	player, cancelPlayer := s.source.Subscribe(api.PlayerChannel)
	recorder, cancelRecorder := s.source.Subscribe(api.RecorderChannel)

	s.mu.Lock()
	s.clients[id] = conn
	s.mu.Unlock()

	defer func() {
		cancelPlayer()
		cancelRecorder()
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		conn.Close()
		s.logger.Info("remote client disconnected", "client", id)
	}()

	replies := make(chan Message, 8)
	done := make(chan struct{})
	go s.readLoop(id, conn, replies, done)

	for {
		var msg Message
		select {
		case <-done:
			return
		case env, ok := <-player:
			if !ok {
				return
			}
			msg = Message{Channel: api.PlayerChannel, Event: env.Event, Data: env.Data}
		case env, ok := <-recorder:
			if !ok {
				return
			}
			msg = Message{Channel: api.RecorderChannel, Event: env.Event, Data: env.Data}
		case msg = <-replies:
		}

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("write to remote client failed", "client", id, "error", err)
			return
		}
	}
}

func (s *Server) readLoop(id string, conn *websocket.Conn, replies chan<- Message, done chan<- struct{}) {
	defer close(done)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read from remote client failed", "client", id, "error", err)
			}
			return
		}

		s.logger.Debug("remote action", "client", id, "action", req.Action)
		if err := s.actor.Do(req.Action); err != nil {
			select {
			case replies <- Message{Event: api.EventError, Data: api.EventData{Err: err.Error()}}:
			default:
			}
		}
	}
}
