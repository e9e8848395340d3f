package wshub

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var (
	ErrSendBufferFull = errors.New("wshub: send buffer full")
	ErrClosed         = errors.New("wshub: socket closed")
)

// Handlers receive socket events. They are invoked from the socket's reader
// goroutine; OnClose is called exactly once per socket.
type Handlers struct {
	OnMessage func(data []byte)
	OnClose   func(err error)
}

// Conn is one live connection. It is never reused after it closes.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// Dialer opens a connection. A nil error means the socket is open.
type Dialer interface {
	Dial(ctx context.Context, url string, h Handlers) (Conn, error)
}

// WSDialer dials with github.com/coder/websocket.
type WSDialer struct {
	HandshakeTimeout time.Duration
	SendBuffer       int
	ReadLimit        int64
}

func NewDialer() *WSDialer {
	return &WSDialer{
		HandshakeTimeout: 5 * time.Second,
		SendBuffer:       16,
		ReadLimit:        1 << 20,
	}
}

func (d *WSDialer) Dial(ctx context.Context, url string, h Handlers) (Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, d.HandshakeTimeout)
	defer cancel()

	c, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	if d.ReadLimit > 0 {
		c.SetReadLimit(d.ReadLimit)
	}

	sockCtx, sockCancel := context.WithCancel(context.Background())
	s := &Socket{
		Conn:   c,
		send:   make(chan []byte, d.SendBuffer),
		ctx:    sockCtx,
		cancel: sockCancel,
	}
	go s.WritePump(sockCtx)
	go s.readPump(h)
	return s, nil
}

// Socket is a client connection with a buffered writer.
type Socket struct {
	Conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// Send queues data for the writer. It never blocks.
func (s *Socket) Send(data []byte) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case s.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// WritePump reads from the send buffer and writes to the WebSocket connection.
func (s *Socket) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.send:
			wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := s.Conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				log.Printf("[WS] write error: %v\n", err)
				s.shutdown(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

func (s *Socket) readPump(h Handlers) {
	var readErr error
	for {
		_, data, err := s.Conn.Read(s.ctx)
		if err != nil {
			readErr = err
			break
		}
		if h.OnMessage != nil {
			h.OnMessage(data)
		}
	}
	s.shutdown(websocket.StatusNormalClosure, "")
	if h.OnClose != nil {
		h.OnClose(readErr)
	}
}

// Close closes the connection; the reader then reports OnClose.
func (s *Socket) Close() error {
	s.shutdown(websocket.StatusNormalClosure, "bye")
	return nil
}

func (s *Socket) shutdown(code websocket.StatusCode, reason string) {
	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.Conn.Close(code, reason)
	})
}
