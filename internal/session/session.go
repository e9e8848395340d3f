package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"beatmeat/internal/clock"
	"beatmeat/internal/protocol"
	"beatmeat/internal/wshub"
)

var ErrNotConnected = errors.New("session: not connected")

const DefaultReconnectDelay = 3 * time.Second

// Identity is who the session joins as.
type Identity struct {
	DisplayName string
}

// Observer is notified on the loop. All methods are optional via NopObserver.
type Observer interface {
	StateChanged(from, to State)
	Frame(data []byte)
	ReconnectScheduled(attempt uint64, delay time.Duration)
}

type NopObserver struct{}

func (NopObserver) StateChanged(State, State)                {}
func (NopObserver) Frame([]byte)                             {}
func (NopObserver) ReconnectScheduled(uint64, time.Duration) {}

type Options struct {
	WSBase         string
	ReconnectDelay time.Duration
	Dialer         wshub.Dialer
	Clock          clock.Clock // callbacks must run on the loop
	Post           func(func())
	Spawn          func(func()) // runs blocking dials; defaults to a goroutine
	Observer       Observer
}

// Manager owns the socket and is the only writer of connection state. Every
// method except the constructor must be called on the loop.
type Manager struct {
	opts     Options
	ctx      context.Context
	cancel   context.CancelFunc
	identity Identity
	state    State
	conn     wshub.Conn
	gen      uint64 // bumped whenever the current socket is abandoned
	attempts uint64
	retry    clock.Timer
	torn     bool
}

func New(opts Options) *Manager {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Spawn == nil {
		opts.Spawn = func(f func()) { go f() }
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{opts: opts, ctx: ctx, cancel: cancel}
}

func (m *Manager) State() State { return m.state }

func (m *Manager) Identity() Identity { return m.identity }

// Attempts reports how many dials have been started.
func (m *Manager) Attempts() uint64 { return m.attempts }

// Connect opens a socket for id. It is a no-op unless disconnected with no
// reconnect pending.
func (m *Manager) Connect(id Identity) error {
	if m.torn {
		return fmt.Errorf("connect after teardown: %w", ErrNotConnected)
	}
	if m.state != Disconnected || m.retry != nil {
		return nil
	}
	m.identity = id
	m.dial()
	return nil
}

// Send writes one frame on the joined socket.
func (m *Manager) Send(data []byte) error {
	if m.state != Joined || m.conn == nil {
		return ErrNotConnected
	}
	if err := m.conn.Send(data); err != nil {
		return fmt.Errorf("sending frame: %w", err)
	}
	return nil
}

// Close tears the session down. No reconnect follows.
func (m *Manager) Close() {
	if m.torn {
		return
	}
	m.torn = true
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	m.gen++
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.transition(evTeardown)
	m.cancel()
}

func (m *Manager) dial() {
	m.retry = nil
	if !m.transition(evConnect) {
		return
	}
	m.gen++
	m.attempts++
	gen := m.gen
	url := URL(m.opts.WSBase, m.identity.DisplayName)
	log.Printf("[Session] connecting to %s (attempt %d)\n", url, m.attempts)

	handlers := wshub.Handlers{
		OnMessage: func(data []byte) {
			m.opts.Post(func() { m.received(gen, data) })
		},
		OnClose: func(err error) {
			m.opts.Post(func() { m.closed(gen, err) })
		},
	}
	ctx := m.ctx
	m.opts.Spawn(func() {
		conn, err := m.opts.Dialer.Dial(ctx, url, handlers)
		m.opts.Post(func() { m.opened(gen, conn, err) })
	})
}

func (m *Manager) opened(gen uint64, conn wshub.Conn, err error) {
	if gen != m.gen {
		// Abandoned attempt: the session closed or was torn down meanwhile.
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		log.Printf("[Session] dial failed: %v\n", err)
		m.closed(gen, err)
		return
	}

	m.conn = conn
	m.transition(evOpen)

	join, err := protocol.EncodeJoin(m.identity.DisplayName)
	if err == nil {
		err = conn.Send(join)
	}
	if err != nil {
		log.Printf("[Session] join failed: %v\n", err)
	}
}

func (m *Manager) received(gen uint64, data []byte) {
	if gen != m.gen {
		return
	}
	m.opts.Observer.Frame(data)
}

func (m *Manager) closed(gen uint64, err error) {
	if gen != m.gen || m.torn {
		return
	}
	m.gen++
	m.conn = nil
	if !m.transition(evClose) {
		return
	}
	if err != nil {
		log.Printf("[Session] socket closed: %v\n", err)
	}
	m.scheduleReconnect()
}

// scheduleReconnect arms one retry after the fixed delay. There is no cap
// and no backoff.
func (m *Manager) scheduleReconnect() {
	if m.retry != nil {
		return
	}
	m.opts.Observer.ReconnectScheduled(m.attempts+1, m.opts.ReconnectDelay)
	m.retry = m.opts.Clock.AfterFunc(m.opts.ReconnectDelay, func() {
		if m.torn {
			return
		}
		m.dial()
	})
}

func (m *Manager) transition(ev event) bool {
	to, ok := next(m.state, ev)
	if !ok {
		log.Printf("[Session] ignoring %s in state %s\n", ev, m.state)
		return false
	}
	from := m.state
	m.state = to
	if from != to {
		m.opts.Observer.StateChanged(from, to)
	}
	return true
}
