// Package session owns the single chat connection: it requests the snapshot on
// open, applies inbound frames to the message log in arrival order and sends
// user messages.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/cbor-chat/chatlog"
	"github.com/gosuda/cbor-chat/protocol"
	"github.com/gosuda/cbor-chat/render"
)

var (
	ErrNotOpen     = errors.New("session: connection is not open")
	ErrAlreadyOpen = errors.New("session: connection already opened")
	ErrClosed      = errors.New("session: closed")
)

const writeWait = 10 * time.Second

// Session is the client side of one chat connection. States move from
// Connecting to Open to Closed and never back; there is no reconnect.
//
// Inbound frames, the message log and the renderer are serialized by one mutex,
// so frames are applied one at a time in the order they are read. Outbound
// writes are serialized separately.
type Session struct {
	mu       sync.Mutex
	state    State
	log      *chatlog.Log
	renderer render.Renderer
	conn     Conn

	writeMu sync.Mutex
	dialer  *websocket.Dialer
}

// Option configures a Session.
type Option func(*Session)

// WithCapacity overrides the number of retained messages.
func WithCapacity(n int) Option {
	return func(s *Session) { s.log = chatlog.New(n) }
}

// WithDialer sets the websocket dialer used by Dial.
func WithDialer(d *websocket.Dialer) Option {
	return func(s *Session) {
		if d != nil {
			s.dialer = d
		}
	}
}

// New returns a session in the Connecting state with an empty log.
func New(r render.Renderer, opts ...Option) *Session {
	s := &Session{
		state:    StateConnecting,
		log:      chatlog.New(chatlog.Capacity),
		renderer: r,
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to the chat endpoint and opens the session.
func (s *Session) Dial(ctx context.Context, endpoint string) error {
	conn, resp, err := s.dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return s.Open(conn)
}

// Open attaches an established connection and requests the message snapshot.
// It is the only frame the session sends on its own.
func (s *Session) Open(conn Conn) error {
	s.mu.Lock()
	switch s.state {
	case StateOpen:
		s.mu.Unlock()
		return ErrAlreadyOpen
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	}
	s.conn = conn
	s.state = StateOpen
	s.mu.Unlock()

	if err := s.send(conn, protocol.RequestSnapshot{}); err != nil {
		_ = s.Close()
		return fmt.Errorf("request snapshot: %w", err)
	}
	return nil
}

// Run reads and applies frames until the connection ends or ctx is cancelled.
// The session is Closed when Run returns. A close initiated through Close or
// ctx, or a normal close from the server, returns nil.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()
	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if s.finish() || ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Msg("[session] server closed the connection")
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		s.HandleFrame(kind, data)
	}
}

// HandleFrame applies one inbound frame. Non-binary frames, frames of at most
// one byte and frames that fail to decode are dropped without touching the log.
func (s *Session) HandleFrame(kind int, data []byte) {
	if kind != websocket.BinaryMessage || len(data) <= 1 {
		return
	}
	p, err := protocol.Decode(data)
	if err != nil {
		log.Debug().Err(err).Int("size", len(data)).Msg("[session] drop malformed frame")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return
	}
	switch p.Kind {
	case protocol.KindSnapshot:
		s.log.ReplaceAll(p.Messages)
		s.renderErr("full", s.renderer.RenderFull(s.log.Snapshot()))
	case protocol.KindUpdate:
		s.applyUpdate(p.Messages[0])
	}
}

// applyUpdate appends one live message. Rows are not tracked individually, so
// once the log is full the whole table is redrawn instead of appended to.
func (s *Session) applyUpdate(m chatlog.Message) {
	before := s.log.Len()
	if before == 0 {
		// A live message can arrive before any snapshot drew the header.
		s.renderErr("frame", s.renderer.RenderFrame())
	}
	s.log.AppendOne(m)
	if before+1 >= s.log.Cap() {
		s.renderErr("full", s.renderer.RenderFull(s.log.Snapshot()))
		return
	}
	s.renderErr("append", s.renderer.RenderAppend(m))
}

func (s *Session) renderErr(op string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("[session] render failed")
	}
}

// Submit sends the content of input as a message from author. The field is
// cleared before validation, so a rejected submission still empties it.
// Blank author or content is dropped silently.
func (s *Session) Submit(author string, input Input) error {
	content := input.Text()
	input.Clear()
	if strings.TrimSpace(author) == "" || strings.TrimSpace(content) == "" {
		return nil
	}

	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()
	if state != StateOpen {
		return ErrNotOpen
	}
	if err := s.send(conn, protocol.SendMessage{Content: content, Author: author}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (s *Session) send(conn Conn, cmd protocol.Command) error {
	b, err := protocol.Encode(cmd)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	setWriteDeadline(conn)
	return conn.WriteMessage(websocket.BinaryMessage, b)
}

// Close sends a normal closure and closes the connection. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	conn := s.conn
	s.state = StateClosed
	s.mu.Unlock()
	if conn == nil {
		return nil
	}

	s.writeMu.Lock()
	setWriteDeadline(conn)
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()
	return conn.Close()
}

// finish marks the session Closed after the read loop ends and reports whether
// it had already been closed locally.
func (s *Session) finish() bool {
	s.mu.Lock()
	already := s.state == StateClosed
	s.state = StateClosed
	conn := s.conn
	s.mu.Unlock()
	if !already && conn != nil {
		_ = conn.Close()
	}
	return already
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns the retained messages in display order.
func (s *Session) Messages() []chatlog.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Snapshot()
}

func setWriteDeadline(conn Conn) {
	if d, ok := conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Now().Add(writeWait))
	}
}
