package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/defford/Epic/internal/hub"
	"github.com/defford/Epic/internal/player"
)

// Options tune a single connection.
type Options struct {
	ReadLimit      int64
	PongWait       time.Duration
	PingPeriod     time.Duration
	WriteWait      time.Duration
	MessageRate    float64
	MessageBurst   int
	AllowedOrigins []string
}

type WebSocketHandler struct {
	Hub *hub.Hub
	Log *zap.Logger

	opts     Options
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(h *hub.Hub, opts Options, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:  h,
		Log:  log,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			EnableCompression: true,
			CheckOrigin:       checkOrigin(opts.AllowedOrigins),
		},
	}
}

// An empty allow-list accepts any origin.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	p := player.New(conn, h.opts.WriteWait, h.Log)
	p.Log.Info("peer connected", zap.String("remote", r.RemoteAddr))
	defer h.HandleDisconnect(p)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(p, done)

	h.HandleMessages(conn, p)
}

// HandleMessages runs the read loop until the peer goes away. Every frame,
// pongs included, pushes the read deadline forward.
func (h *WebSocketHandler) HandleMessages(conn *websocket.Conn, p *player.Player) {
	conn.SetReadLimit(h.opts.ReadLimit)
	extend := func() error {
		return conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	}
	_ = extend()
	conn.SetPongHandler(func(string) error { return extend() })

	limiter := rate.NewLimiter(rate.Limit(h.opts.MessageRate), h.opts.MessageBurst)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.Log.Warn("read failed", zap.Error(err))
			}
			return
		}
		_ = extend()

		if !limiter.Allow() {
			p.Log.Warn("message rate exceeded, frame dropped")
			continue
		}
		h.ProcessMessage(p, data)
	}
}

func (h *WebSocketHandler) keepAlive(p *player.Player, done <-chan struct{}) {
	ticker := time.NewTicker(h.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := p.Ping(); err != nil {
				p.Log.Debug("ping failed", zap.Error(err))
				// Unblocks the read loop.
				_ = p.Close()
				return
			}
		}
	}
}

func (h *WebSocketHandler) HandleDisconnect(p *player.Player) {
	h.Hub.Disconnect(p)
	_ = p.Close()
	p.Log.Info("peer disconnected", zap.Duration("connected_for", time.Since(p.ConnectedAt)))
}
