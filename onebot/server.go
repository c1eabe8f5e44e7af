package onebot

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
)

// EventHandler consumes pushed group message events. Implementations must not
// block; long work belongs in a goroutine of their own.
type EventHandler interface {
	HandleEvent(ev *MessageEvent)
}

// Server receives OneBot HTTP event pushes.
type Server struct {
	*http.Server
	handler EventHandler
	logger  *logging.Logger
}

// NewServer builds the webhook server. The relay must be configured to POST
// events to this address.
func NewServer(addr string, handler EventHandler, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}

	s := &Server{
		handler: handler,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleEvent)
	s.Server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var ev MessageEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.logger.Warn("dropping undecodable event", "error", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// heartbeat and non-group events are acknowledged and ignored
	if ev.IsGroupMessage() {
		metrics.EventReceivedCount.Add(1)
		// each invocation runs as its own task so the webhook never blocks
		go s.handler.HandleEvent(&ev)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Run serves until the listener is closed.
func (s *Server) Run() {
	_ = s.ListenAndServe()
}
