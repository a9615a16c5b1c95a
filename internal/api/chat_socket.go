package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatSocket answers chat questions over a websocket: one ChatResponse frame per request frame
type ChatSocket struct {
	recommender ProductRecommender
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewChatSocket(recommender ProductRecommender, validate *validator.Validate, log zerolog.Logger) *ChatSocket {
	return &ChatSocket{
		recommender: recommender,
		validate:    validate,
		log:         log,
	}
}

type chatConn struct {
	session *models.ChatSession
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{} // closed by writePump when it exits
	log     zerolog.Logger
}

func newChatConn(conn *websocket.Conn, session *models.ChatSession, log zerolog.Logger) *chatConn {
	return &chatConn{
		session: session,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		log:     log.With().Str("session_id", session.ID).Logger(),
	}
}

func (s *ChatSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		s.log.Warn().Err(err).Msg("failed to upgrade chat websocket")
		return
	}

	session := models.NewChatSession(r.RemoteAddr)
	c := newChatConn(conn, session, s.log)
	c.log.Info().Str("remote_addr", session.RemoteAddr).Msg("chat session opened")

	go c.writePump()
	// The read pump runs on the request goroutine so ctx stays live for the whole session
	s.readPump(ctx, c)

	c.log.Info().
		Int("messages", session.Messages).
		Dur("duration", time.Since(session.ConnectedAt)).
		Msg("chat session closed")
}

func (s *ChatSocket) readPump(ctx context.Context, c *chatConn) {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("chat websocket read failed")
			}
			return
		}
		c.session.Touch()
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if !c.enqueue(ctx, s.answer(ctx, c.session, frame)) {
			return
		}
	}
}

// enqueue hands a reply to the write pump. It reports false once the write pump
// has stopped or ctx is done.
func (c *chatConn) enqueue(ctx context.Context, reply []byte) bool {
	select {
	case c.send <- reply:
		return true
	case <-c.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// answer turns one request frame into one reply frame
func (s *ChatSocket) answer(ctx context.Context, session *models.ChatSession, frame []byte) []byte {
	ctx, span := middleware.StartSpan(ctx, "ChatSocket.Message",
		attribute.String("session.id", session.ID),
		attribute.Int("message.size", len(frame)),
	)
	defer span.End()

	req := models.ChatRequest{ProductsLimit: defaultProductLimit}
	if err := json.Unmarshal(frame, &req); err != nil {
		middleware.AddSpanError(ctx, err)
		return frameError("mensagem inválida: JSON esperado")
	}

	message, err := checkChatRequest(s.validate, &req)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return frameError(err.Error())
	}

	result := s.recommender.Recommend(ctx, message, req.ProductsLimit)
	reply, err := json.Marshal(models.NewChatResponse(result, false))
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return frameError("falha ao serializar resposta")
	}
	return reply
}

func (c *chatConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn().Err(err).Msg("chat websocket write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func frameError(message string) []byte {
	b, _ := json.Marshal(models.ChatFrameError{Error: message})
	return b
}
