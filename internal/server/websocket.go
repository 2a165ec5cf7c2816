package server

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/animation"
	"github.com/eightweeks/fujimi-forecast/internal/gallery"
	"github.com/eightweeks/fujimi-forecast/internal/site"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// counterFrameInterval paces server-driven count-up frames.
const counterFrameInterval = 50 * time.Millisecond

// Client message types.
const (
	msgSliders  = "sliders"
	msgScroll   = "scroll"
	msgFilter   = "filter"
	msgLoadMore = "loadMore"
	msgResize   = "resize"
	msgReveal   = "reveal"
	msgContact  = "contact"
)

// Server message types not shared with the client set.
const (
	msgUpdate  = "update"
	msgLayout  = "layout"
	msgCounter = "counter"
	msgError   = "error"
)

type clientMessage struct {
	Type           string                      `json:"type"`
	Properties     int                         `json:"properties"`
	Occupancy      float64                     `json:"occupancy"`
	Offset         float64                     `json:"offset"`
	Filter         string                      `json:"filter"`
	ViewportHeight float64                     `json:"viewportHeight"`
	Positions      map[string]animation.Bounds `json:"positions"`
	Form           site.ContactForm            `json:"form"`
}

type serverMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type revealPayload struct {
	ID       string              `json:"id"`
	Counters []animation.Counter `json:"counters,omitempty"`
}

type counterPayload struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// socketRegistry tracks open connections so shutdown can close them.
type socketRegistry struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newSocketRegistry() *socketRegistry {
	return &socketRegistry{conns: make(map[*websocket.Conn]struct{})}
}

func (s *socketRegistry) add(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *socketRegistry) remove(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *socketRegistry) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *socketRegistry) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, conn)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// session is one connected landing page.
type session struct {
	logger *zap.Logger
	conn   *websocket.Conn
	page   *site.Page
	ctx    context.Context

	writeMu sync.Mutex
}

func (s *session) send(msgType string, payload any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(serverMessage{Type: msgType, Payload: payload}); err != nil {
		s.logger.Debug("websocket write failed",
			zap.String("op", "server.send"),
			zap.String("type", msgType),
			zap.Error(err),
		)
	}
}

func (h *handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSocket"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}
	// The body limit middleware does not apply once the connection is hijacked.
	conn.SetReadLimit(h.maxUploadSize)

	ctx, cancel := context.WithCancel(context.Background())
	logger := h.logger.With(zap.String("requestID", RequestID(r.Context())))
	s := &session{logger: logger, conn: conn, ctx: ctx}

	opts := site.DefaultOptions()
	opts.OnLayout = func(placements []gallery.Placement) {
		s.send(msgLayout, placements)
	}
	page, err := site.NewPage(logger, h.calc, opts)
	if err != nil {
		cancel()
		logger.Error("failed to create page",
			zap.String("op", op),
			zap.Error(err),
		)
		_ = conn.Close()
		return
	}
	s.page = page

	h.sockets.add(conn)
	defer func() {
		cancel()
		page.Close()
		h.sockets.remove(conn)
		_ = conn.Close()
	}()

	logger.Info("websocket connected", zap.String("op", op))
	s.send(msgUpdate, page.Current())

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed",
					zap.String("op", op),
					zap.Error(err),
				)
			}
			return
		}
		s.dispatch(msg)
	}
}

func (s *session) dispatch(msg clientMessage) {
	switch msg.Type {
	case msgSliders:
		update, err := s.page.SetSliders(msg.Properties, msg.Occupancy)
		if err != nil {
			s.send(msgError, err.Error())
			return
		}
		s.send(msgUpdate, update)
	case msgScroll:
		s.send(msgScroll, s.page.Scroll(msg.Offset))
	case msgFilter:
		s.send(msgFilter, s.page.FilterGallery(msg.Filter))
	case msgLoadMore:
		s.send(msgLoadMore, s.page.LoadMore())
	case msgResize:
		s.page.Resize()
	case msgReveal:
		s.reveal(msg.ViewportHeight, msg.Positions)
	case msgContact:
		confirmation, err := s.page.SubmitContact(msg.Form)
		if err != nil {
			s.send(msgError, err.Error())
			return
		}
		s.send(msgContact, confirmation)
	default:
		s.send(msgError, "unknown message type: "+msg.Type)
	}
}

// reveal reports newly visible elements and drives their counters.
func (s *session) reveal(viewportHeight float64, positions map[string]animation.Bounds) {
	for _, ev := range s.page.Reveal(viewportHeight, positions, time.Now()) {
		payload := revealPayload{ID: ev.ID}
		ids := make([]string, 0, len(ev.CountUps))
		for id := range ev.CountUps {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			payload.Counters = append(payload.Counters, animation.Counter{ID: id, Target: ev.CountUps[id].End})
		}
		s.send(msgReveal, payload)

		for _, id := range ids {
			go s.runCounter(id, ev.CountUps[id])
		}
	}
}

func (s *session) runCounter(id string, cu *animation.CountUp) {
	ticker := time.NewTicker(counterFrameInterval)
	defer ticker.Stop()

	err := cu.Run(s.ctx, ticker.C, func(value int) {
		s.send(msgCounter, counterPayload{ID: id, Value: value})
	})
	if err != nil && s.ctx.Err() == nil {
		s.logger.Debug("count-up stopped",
			zap.String("op", "server.runCounter"),
			zap.String("counter", id),
			zap.Error(err),
		)
	}
}

