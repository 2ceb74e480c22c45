package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/logging"
	"cipherchat/internal/store"
)

const (
	// DefaultMaxFrameBytes bounds a single websocket message. Inline image
	// envelopes are the largest frames.
	DefaultMaxFrameBytes = 16 << 20

	writeWait = 10 * time.Second
)

// BlobSink is the storage behind the blob endpoints.
type BlobSink interface {
	Save(data []byte) (string, error)
	Open(id string) ([]byte, error)
	MaxBytes() int64
}

type blobResponse struct {
	URL string `json:"url"`
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMaxFrameBytes sets the websocket read limit.
func WithMaxFrameBytes(n int64) ServerOption {
	return func(s *Server) { s.maxFrame = n }
}

// WithBlobs enables the blob endpoints backed by sink.
func WithBlobs(sink BlobSink) ServerOption {
	return func(s *Server) { s.blobs = sink }
}

// Server serves the websocket gateway and blob endpoints for one Hub.
type Server struct {
	hub      *Hub
	blobs    BlobSink
	log      *zap.Logger
	maxFrame int64
	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, log *zap.Logger, opts ...ServerOption) *Server {
	s := &Server{
		hub:      hub,
		log:      logging.OrNop(log),
		maxFrame: DefaultMaxFrameBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed, access-logged HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleGateway).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	if s.blobs != nil {
		r.HandleFunc("/blobs", s.handlePutBlob).Methods(http.MethodPost)
		r.HandleFunc("/blobs/{id}", s.handleGetBlob).Methods(http.MethodGet)
	}
	return AccessLog(s.log)(r)
}

func (s *Server) handleGateway(w http.ResponseWriter, r *http.Request) {
	// Attach before the handshake completes so a frame published right after
	// the client's Dial returns is not missed.
	id, frames := s.hub.Attach()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.Detach(id)
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(s.maxFrame)

	log := s.log.With(zap.Stringer("member", id), zap.String("remote", remoteAddr(r)))

	done := make(chan struct{})
	go s.writePump(conn, frames, done, log)

	// A member that drops without leaving is announced as having left.
	var name domain.Username
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read failed", zap.Error(err))
			}
			break
		}
		var f domain.Frame
		if err := json.Unmarshal(data, &f); err != nil {
			log.Warn("malformed frame", zap.Error(err))
			continue
		}
		if err := s.hub.Publish(id, f); err != nil {
			log.Warn("frame rejected", zap.String("event", string(f.Event)), zap.Error(err))
			continue
		}
		switch f.Event {
		case domain.EventJoin:
			name = f.Username
			log.Info("participant joined", zap.Stringer("username", name))
		case domain.EventLeave:
			log.Info("participant left", zap.Stringer("username", f.Username))
			name = ""
		}
	}

	if name != "" {
		if err := s.hub.Publish(id, domain.Frame{Event: domain.EventLeave, Username: name}); err != nil {
			log.Warn("implicit leave failed", zap.Error(err))
		}
	}
	s.hub.Detach(id)
	<-done
	_ = conn.Close()
}

func (s *Server) writePump(conn *websocket.Conn, frames <-chan domain.Frame, done chan<- struct{}, log *zap.Logger) {
	defer close(done)
	for f := range frames {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(f); err != nil {
			log.Warn("write failed", zap.Error(err))
			// Unblocks the read loop, which detaches and closes frames.
			_ = conn.Close()
			for range frames {
			}
			return
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) handlePutBlob(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if max := s.blobs.MaxBytes(); max > 0 {
		body = http.MaxBytesReader(w, r.Body, max)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "blob too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	id, err := s.blobs.Save(data)
	switch {
	case errors.Is(err, store.ErrBlobTooLarge):
		http.Error(w, "blob too large", http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		s.log.Error("store blob", zap.Error(err))
		http.Error(w, "store blob", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(blobResponse{URL: "/blobs/" + id})
}

func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	data, err := s.blobs.Open(mux.Vars(r)["id"])
	switch {
	case errors.Is(err, store.ErrBlobNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.log.Error("open blob", zap.Error(err))
		http.Error(w, "open blob", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
