package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/htmlbox/internal/core/board"
	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/prism"
	"github.com/zeusync/htmlbox/pkg/concurrent"
	"github.com/zeusync/htmlbox/pkg/sequence"
)

// closeParallelism bounds the goroutines Close uses to say goodbye to clients.
const closeParallelism = 16

// Bridge streams prism transforms to browser renderers over WebSocket and
// turns their key presses into rolls.
type Bridge struct {
	board  *board.Board
	bus    bus.EventBus
	config Config
	logger log.Log

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
	subs    []bus.Subscription
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
}

type client struct {
	id     string
	conn   *websocket.Conn
	out    chan []byte
	done   chan struct{}
	once   sync.Once
	logger log.Log
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// NewBridge subscribes to roll events on eb and returns a bridge ready to
// serve WebSocket upgrades.
func NewBridge(b *board.Board, eb bus.EventBus, config Config, logger log.Log) (*Bridge, error) {
	if b == nil {
		return nil, ErrNilBoard
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	br := &Bridge{
		board:   b,
		bus:     eb,
		config:  config,
		logger:  log.OrNop(logger).With(log.String("component", "bridge")),
		clients: make(map[string]*client),
		ctx:     ctx,
		cancel:  cancel,
	}
	br.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     br.checkOrigin,
	}

	if eb != nil {
		for typ, frame := range map[string]string{
			prism.EventRollStep:     FrameStep,
			prism.EventRollFinished: FrameFinished,
			prism.EventRollRejected: FrameRejected,
		} {
			sub, err := eb.Subscribe(typ, br.forward(frame))
			if err != nil {
				cancel()
				return nil, err
			}
			br.subs = append(br.subs, sub)
		}
	}
	return br, nil
}

func (b *Bridge) checkOrigin(r *http.Request) bool {
	if len(b.config.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(b.config.AllowedOrigins, r.Header.Get("Origin"))
}

func (b *Bridge) forward(frameType string) bus.EventHandler {
	return func(e bus.Event) error {
		ev, ok := e.Data().(prism.RollEvent)
		if !ok {
			return ErrInvalidMessage
		}
		b.Broadcast(rollFrame(frameType, ev))
		return nil
	}
}

// Clients returns the number of connected clients.
func (b *Bridge) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Broadcast queues f for every client. Clients whose queue is full miss it.
func (b *Bridge) Broadcast(f Frame) {
	data, err := f.Serialize()
	if err != nil {
		b.logger.Error("Failed to encode frame", log.String("type", f.Type), log.Error(err))
		return
	}

	b.mu.RLock()
	clients := sequence.FromMap(b.clients).Collect()
	b.mu.RUnlock()

	for _, c := range clients {
		c.enqueue(data, f.Type)
	}
}

func (c *client) enqueue(data []byte, frameType string) {
	select {
	case <-c.done:
	case c.out <- data:
	default:
		c.logger.Warn("Client send buffer full, frame dropped", log.String("type", frameType))
	}
}

func (c *client) send(f Frame) {
	data, err := f.Serialize()
	if err != nil {
		c.logger.Error("Failed to encode frame", log.String("type", f.Type), log.Error(err))
		return
	}
	c.enqueue(data, f.Type)
}

// ServeHTTP upgrades the request and runs the client until it disconnects.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("WebSocket upgrade failed", log.String("remote", r.RemoteAddr), log.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		out:  make(chan []byte, b.config.SendBuffer),
		done: make(chan struct{}),
	}
	c.logger = b.logger.With(log.String("client_id", c.id))

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ErrServerClosed.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}
	b.clients[c.id] = c
	b.mu.Unlock()

	c.logger.Info("Client connected", log.String("remote", r.RemoteAddr))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		b.writeLoop(c)
	}()

	c.send(stateFrame(b.board.State()))
	b.readLoop(c)

	b.mu.Lock()
	delete(b.clients, c.id)
	b.mu.Unlock()
	c.stop()
	<-writerDone
	_ = conn.Close()

	c.logger.Info("Client disconnected")
}

func (b *Bridge) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("Write failed", log.Error(err))
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (b *Bridge) readLoop(c *client) {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("Read failed", log.Error(err))
			}
			return
		}

		var cmd Command
		if err = cmd.Deserialize(msg); err != nil {
			c.send(errorFrame(err))
			continue
		}
		b.handle(c, cmd)
	}
}

func (b *Bridge) handle(c *client, cmd Command) {
	switch cmd.Action {
	case ActionState:
		c.send(stateFrame(b.board.State()))
	case ActionMove:
		dir, err := board.ParseDirection(cmd.Direction)
		if err != nil {
			c.send(errorFrame(err))
			return
		}
		c.logger.Debug("Move requested", log.Stringer("direction", dir))
		results := b.board.MoveAsync(b.ctx, dir)
		go func() {
			res := <-results
			switch {
			case errors.Is(res.Err, board.ErrOffGrid):
				c.send(Frame{Type: FrameRejected, Direction: dir.String(), Reason: ReasonOffGrid})
			case res.Err != nil:
				c.send(errorFrame(res.Err))
			}
		}()
	default:
		c.send(errorFrame(fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)))
	}
}

// Close unsubscribes from the bus and disconnects every client.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	clients := sequence.FromMap(b.clients).Collect()
	b.mu.Unlock()

	b.cancel()
	for _, sub := range subs {
		_ = b.bus.Unsubscribe(sub)
	}

	err := concurrent.Limited(sequence.From(clients), closeParallelism, func(c *client) error {
		c.stop()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		return c.conn.Close()
	})
	b.logger.Info("Bridge closed", log.Int("clients", len(clients)))
	return err
}
