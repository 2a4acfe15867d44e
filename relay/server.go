package relay

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradewire/client"
	"tradewire/wire"
)

const (
	subscriberBuffer  = 32
	writeTimeout      = 2 * time.Second
)

// Server is the relay's HTTP+WebSocket listener. It couples one
// Producer (the engine session reader) to a Registry of subscribers,
// per spec.md §4.5.
type Server struct {
	registry *Registry
	producer *Producer
	metrics  *Metrics
	logger   Logger

	upgrader websocket.Upgrader
	started  time.Time
}

// NewServer builds a relay bound to session as its engine producer.
// filter may be nil for DefaultFilter. Call Start to begin serving;
// the producer does not run until Start is called.
func NewServer(session *client.Session, filter map[wire.EventKind]bool, metrics *Metrics, logger Logger) *Server {
	if metrics == nil {
		metrics = NewMetrics("relay")
	}
	if logger == nil {
		logger = nopLogger{}
	}
	s := &Server{
		registry: NewRegistry(),
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		started: time.Now(),
	}
	s.producer = NewProducer(session, filter, metrics, logger, s.broadcast)
	return s
}

// Start launches the producer goroutine. It must be called exactly
// once before Shutdown, which waits for that goroutine to stop; it may
// be called before or after HTTP serving begins.
func (s *Server) Start() {
	go s.producer.Run()
}

// Shutdown stops the producer and closes every subscriber's sink.
func (s *Server) Shutdown() {
	s.producer.Stop()
	for _, sub := range s.registry.Summaries() {
		s.registry.Remove(sub.ID)
	}
}

// broadcast serializes e and fans it out to every current subscriber.
// Called on the producer's own goroutine; it must never block for
// long, which is why Registry.Broadcast is non-blocking per sink.
func (s *Server) broadcast(e wire.Event) {
	s.registry.Broadcast(serializeEvent(e))
}

// Routes builds the relay's HTTP mux: /ws for the fan-out, plus the
// auxiliary /health, /clients, and /metrics endpoints (spec.md §4.5,
// "Auxiliary endpoints"). Static file serving is left to an external
// collaborator, per spec.md §1.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/clients", s.handleClients)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	return mux
}

// handleWS upgrades the request to a WebSocket and admits it as a new
// subscriber. It runs a writer goroutine (fed by the subscriber's
// sink) alongside a reader loop whose only job is to notice a close
// frame or a broken connection; whichever side fails first tears down
// the other, so a dead peer never leaks the goroutine pair.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	id, sink := s.registry.Register(subscriberBuffer)
	s.metrics.subscribersJoined.Inc()
	s.metrics.subscribersLive.Inc()
	s.logger.Infof("relay: subscriber %s connected", id)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for payload := range sink {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.registry.Remove(id)
				_ = conn.Close()
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.registry.Remove(id)
	_ = conn.Close()
	<-writerDone

	s.metrics.subscribersDropped.Inc()
	s.metrics.subscribersLive.Dec()
	s.logger.Infof("relay: subscriber %s disconnected", id)
}

type healthResponse struct {
	Status      string `json:"status"`
	UptimeSecs  int64  `json:"uptimeSeconds"`
	Subscribers int    `json:"subscribers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		UptimeSecs:  int64(time.Since(s.started).Seconds()),
		Subscribers: s.registry.Len(),
	})
}

type clientsResponse struct {
	Subscribers []Summary `json:"subscribers"`
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, clientsResponse{Subscribers: s.registry.Summaries()})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
