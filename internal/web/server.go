// Package web mirrors the compass state to browsers: GET /state returns the
// latest state as JSON and /ws streams every engine event over a websocket.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// Server serves the state endpoints for one hub.
type Server struct {
	addr     string
	hub      *Hub
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server for the given address.
func NewServer(addr string, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr: addr,
		hub:  hub,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// read-only mirror, any page may watch it
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Mux returns an http.Handler with all routes registered.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully and disconnects websocket clients.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Mux(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// hijacked websocket connections are not tracked by Shutdown
		s.hub.Close()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	data := s.hub.Latest()
	if data == nil {
		http.Error(w, "no state yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		s.log.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	c, latest, ok := s.hub.subscribe(id)
	if !ok {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		return
	}
	defer s.hub.unsubscribe(c)
	log := s.log.With("client", id)
	log.Info("client connected", "remote", r.RemoteAddr, "clients", s.hub.Clients())
	defer log.Info("client disconnected")

	// the read side only notices close frames and dead peers
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hello, _ := json.Marshal(Message{Kind: helloKind, Client: id})
	if err := s.write(conn, hello); err != nil {
		return
	}
	if latest != nil {
		if err := s.write(conn, latest); err != nil {
			return
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if err := s.write(conn, data); err != nil {
				log.Debug("write failed", "err", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
