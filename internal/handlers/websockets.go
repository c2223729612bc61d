package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	hm "heartbeat_monitor"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
	initialLookback  = 5 * time.Minute
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsConnect streams newly recorded alerts to the client. Each tick
// pushes alerts inserted since the previous push; the first push
// covers a short lookback so a reconnecting client catches up.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Prepare periodic writers: alert pushes and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// First push covers the lookback window immediately.
	cursor := newAlertCursor(time.Now().UTC().Add(-initialLookback))
	if err := h.sendNewAlerts(c.Request.Context(), conn, cursor); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendNewAlerts(c.Request.Context(), conn, cursor); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// alertCursor tracks the delivery position in the alert log. Stored
// created_at values have second granularity, so the cursor cannot
// advance past its own second on wall-clock alone: it sits on the
// newest delivered created_at and remembers the IDs already sent at
// that boundary, deduping the inclusive re-read on the next poll.
type alertCursor struct {
	at   time.Time
	sent map[string]struct{}
}

func newAlertCursor(at time.Time) *alertCursor {
	return &alertCursor{at: at, sent: make(map[string]struct{})}
}

// take filters the polled alerts down to the not-yet-delivered ones
// and advances the cursor to cover everything in the poll.
func (cur *alertCursor) take(alerts []hm.Alert) []hm.Alert {
	var fresh []hm.Alert
	latest := cur.at
	for _, a := range alerts {
		if _, dup := cur.sent[a.AlertID]; dup {
			continue
		}
		fresh = append(fresh, a)
		if a.CreatedAt.After(latest) {
			latest = a.CreatedAt
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if latest.After(cur.at) {
		cur.at = latest
		cur.sent = make(map[string]struct{})
	}
	for _, a := range alerts {
		if !a.CreatedAt.Before(cur.at) {
			cur.sent[a.AlertID] = struct{}{}
		}
	}
	return fresh
}

// Helper: sendNewAlerts polls the alert log from the cursor and writes
// any not-yet-delivered alerts with a write deadline. An empty poll
// writes nothing and leaves the cursor where it was.
func (h *Handler) sendNewAlerts(ctx context.Context, conn *websocket.Conn, cur *alertCursor) error {
	alerts, err := h.services.AlertLog.ListSince(ctx, cur.at)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_alerts_failed", "err", err)
		}
		return err
	}
	fresh := cur.take(alerts)
	if len(fresh) == 0 {
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "alerts", Data: fresh})
}
