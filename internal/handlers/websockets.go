package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = wsPongWait * 9 / 10
	wsReadLimit = 4 << 10

	statusEvery    = time.Second
	maxStatusEvery = 10 * time.Second
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Dashboards are served from other origins.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// statusStream pushes the roast status to one dashboard connection.
type statusStream struct {
	h    *Handler
	conn *websocket.Conn
}

func (h *Handler) wsConnect(c *gin.Context) {
	every := h.streamInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	st := &statusStream{h: h, conn: conn}
	st.run(c.Request.Context(), every)
}

// streamInterval honours ?interval=2s first, then ?interval_ms=2000.
// Anything outside (0, 10s] falls back to one second.
func (h *Handler) streamInterval(c *gin.Context) time.Duration {
	if d, err := time.ParseDuration(c.Query("interval")); err == nil && d > 0 && d <= maxStatusEvery {
		return d
	}
	if ms, err := strconv.Atoi(c.Query("interval_ms")); err == nil && ms > 0 && ms <= int(maxStatusEvery/time.Millisecond) {
		return time.Duration(ms) * time.Millisecond
	}
	return statusEvery
}

func (st *statusStream) run(ctx context.Context, every time.Duration) {
	closed := st.watchClose()

	if err := st.push(ctx); err != nil {
		st.logClosed("ws_write_failed_initial", err)
		return
	}

	tick := time.NewTicker(every)
	defer tick.Stop()
	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := st.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				st.logClosed("ws_ping_failed", err)
				return
			}
		case <-tick.C:
			if err := st.push(ctx); err != nil {
				st.logClosed("ws_write_failed", err)
				return
			}
		}
	}
}

// watchClose keeps a read pending so pongs and close frames get
// processed; the returned channel closes once the peer is gone.
func (st *statusStream) watchClose() <-chan struct{} {
	st.conn.SetReadLimit(wsReadLimit)
	_ = st.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	st.conn.SetPongHandler(func(string) error {
		return st.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := st.conn.NextReader(); err != nil {
				st.logClosed("ws_read_closed", err)
				return
			}
		}
	}()
	return closed
}

func (st *statusStream) push(ctx context.Context) error {
	status := st.h.services.Monitoring.GetRoastStatus(ctx)
	_ = st.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return st.conn.WriteJSON(wsEnvelope{Type: "status", Data: status})
}

func (st *statusStream) logClosed(msg string, err error) {
	if st.h.log != nil {
		st.h.log.Infow(msg, "err", err)
	}
}
