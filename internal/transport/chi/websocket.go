package chi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kailas-cloud/carelens/internal/domain"
	"github.com/kailas-cloud/carelens/internal/logger"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Peers only send control frames and heartbeats.
	maxMessageSize = 512
)

// Message types sent over the frame stream.
const (
	MessageFrame = "frame"
	MessageError = "error"
)

// StreamMessage is one websocket message.
type StreamMessage struct {
	Type    string             `json:"type"`
	Frame   *dashboarduc.Frame `json:"frame,omitempty"`
	Code    ErrorCode          `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
}

// Stream handles GET /api/v1/ws: one frame on connect, then one per state
// change. Frames are coalesced so a slow peer only sees the latest.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(logger.With(r.Context(), zap.String("session", s.dashboard.ID())))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	st := &stream{conn: conn, frames: make(chan dashboarduc.Frame, 1), logger: log}
	unsubscribe := s.dashboard.Subscribe(st.offer)
	defer unsubscribe()

	f, err := s.dashboard.Frame()
	switch {
	case err == nil:
		st.offer(f)
	case errors.Is(err, domain.ErrNotLoaded):
		st.notLoaded = true
	default:
		log.Error("initial frame failed", zap.Error(err))
		_ = conn.Close()
		return
	}

	done := make(chan struct{})
	go st.readPump(done)
	st.writePump(done)
}

type stream struct {
	conn      *websocket.Conn
	frames    chan dashboarduc.Frame
	logger    *zap.Logger
	notLoaded bool
}

// offer replaces any pending frame with f. It never blocks.
func (st *stream) offer(f dashboarduc.Frame) {
	for {
		select {
		case st.frames <- f:
			return
		default:
		}
		select {
		case <-st.frames:
		default:
		}
	}
}

func (st *stream) readPump(done chan<- struct{}) {
	defer close(done)
	st.conn.SetReadLimit(maxMessageSize)
	_ = st.conn.SetReadDeadline(time.Now().Add(pongWait))
	st.conn.SetPongHandler(func(string) error {
		return st.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := st.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				st.logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}
	}
}

func (st *stream) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = st.conn.Close()
	}()

	if st.notLoaded {
		if err := st.write(StreamMessage{Type: MessageError, Code: CodeNotLoaded, Message: domain.ErrNotLoaded.Error()}); err != nil {
			return
		}
	}

	var (
		sent bool
		last uint64
	)
	for {
		select {
		case <-done:
			return
		case f := <-st.frames:
			// The initial frame may race with a newer pushed one.
			if sent && f.Version <= last {
				continue
			}
			if err := st.write(StreamMessage{Type: MessageFrame, Frame: &f}); err != nil {
				st.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
			sent, last = true, f.Version
		case <-ticker.C:
			_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := st.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (st *stream) write(m StreamMessage) error {
	_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return st.conn.WriteJSON(m) //nolint:wrapcheck // connection teardown only
}
