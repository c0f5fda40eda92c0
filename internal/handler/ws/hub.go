package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	svcmetrics "FxScore/internal/service/metrics"
	applogger "FxScore/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Message is the frame pushed to every client.
type Message struct {
	Type string                `json:"type"`
	Data *models.ScoringResult `json:"data"`
}

const messageTypeResult = "result"

type Config struct {
	Path         string
	WriteWait    time.Duration
	PongWait     time.Duration
	SendBuffer   int
	AllowOrigins []string
}

// Hub pushes every workspace result to connected websocket clients. A client
// whose send buffer is full is dropped rather than slowing the others down.
type Hub struct {
	l        *applogger.Logger
	cfg      Config
	upgrader websocket.Upgrader
	seed     func(ctx context.Context) (*models.ScoringResult, error)

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once

	clients map[*client]struct{}
	latest  []byte
	count   atomic.Int64
}

type Option func(*Hub)

// WithSeed supplies the result a client receives on connect before the hub has broadcast anything.
func WithSeed(seed func(ctx context.Context) (*models.ScoringResult, error)) Option {
	return func(h *Hub) { h.seed = seed }
}

func NewHub(l *applogger.Logger, cfg Config, opts ...Option) *Hub {
	if cfg.Path == "" {
		cfg.Path = "/ws/results"
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 16
	}
	if l == nil {
		l = applogger.Nop()
	}
	svcmetrics.Register()

	h := &Hub{
		l:          l,
		cfg:        cfg,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowOrigins) == 0 {
		return true
	}
	for _, o := range h.cfg.AllowOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (h *Hub) Name() string { return "websocket" }

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET(h.cfg.Path, h.Serve)
}

// Clients reports how many clients are connected.
func (h *Hub) Clients() int { return int(h.count.Load()) }

// Publish queues r for broadcast. It never blocks on slow clients; when the
// hub itself is backed up the result is dropped, the next one supersedes it.
func (h *Hub) Publish(ctx context.Context, r *models.ScoringResult) error {
	b, err := json.Marshal(Message{Type: messageTypeResult, Data: r})
	if err != nil {
		return fmt.Errorf("marshal ws message: %w", err)
	}
	select {
	case h.broadcast <- b:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		svcmetrics.WebsocketMessages.WithLabelValues("dropped").Inc()
		return fmt.Errorf("ws broadcast queue full")
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.remove(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			svcmetrics.WebsocketClients.Inc()
			if h.latest != nil {
				h.deliver(c, h.latest)
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.remove(c)
			}
		case msg := <-h.broadcast:
			h.latest = msg
			for c := range h.clients {
				h.deliver(c, msg)
			}
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) deliver(c *client, msg []byte) {
	select {
	case c.send <- msg:
		svcmetrics.WebsocketMessages.WithLabelValues("sent").Inc()
	default:
		svcmetrics.WebsocketMessages.WithLabelValues("dropped").Inc()
		h.l.Warn("dropping slow websocket client", applogger.String("remote", c.remote))
		h.remove(c)
	}
}

func (h *Hub) remove(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
	svcmetrics.WebsocketClients.Dec()
}

// Serve upgrades the request and attaches the connection to the hub.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already answered with an HTTP error
		h.l.Debug("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	cl := &client{hub: h, conn: conn, send: make(chan []byte, h.cfg.SendBuffer), remote: c.RealIP()}

	if h.seed != nil {
		if msg := h.seedMessage(c.Request().Context()); msg != nil {
			cl.send <- msg
		}
	}

	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.Close()
		return nil
	}
	h.l.Debug("websocket client connected", applogger.String("remote", cl.remote))

	go cl.writePump()
	go cl.readPump()
	return nil
}

func (h *Hub) seedMessage(ctx context.Context) []byte {
	res, err := h.seed(ctx)
	if err != nil {
		h.l.Warn("load latest result for websocket client", applogger.Error(err))
		return nil
	}
	b, err := json.Marshal(Message{Type: messageTypeResult, Data: res})
	if err != nil {
		return nil
	}
	return b
}

var _ domrepo.ResultSink = (*Hub)(nil)
