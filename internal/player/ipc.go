package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

var (
	errClosed              = errors.New("mpv: connection closed")
	errPropertyUnavailable = errors.New("mpv: property unavailable")
)

const pauseObserverID = 1

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type ipcMessage struct {
	RequestID int64           `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

type ipcReply struct {
	data json.RawMessage
	err  error
}

// ipcClient speaks mpv's newline-delimited JSON protocol.
type ipcClient struct {
	conn   io.ReadWriteCloser
	logger *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan ipcReply

	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

func newIPCClient(conn io.ReadWriteCloser, logger *slog.Logger) *ipcClient {
	c := &ipcClient{
		conn:    conn,
		logger:  logger,
		pending: make(map[int64]chan ipcReply),
		events:  make(chan Event, 64),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *ipcClient) call(ctx context.Context, command ...any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan ipcReply, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	line, err := json.Marshal(ipcRequest{Command: command, RequestID: id})
	if err != nil {
		return nil, err
	}
	line = append(line, '\n')

	c.writeMu.Lock()
	_, err = c.conn.Write(line)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("mpv: write: %w", err)
	}

	select {
	case reply := <-ch:
		return reply.data, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, errClosed
	}
}

func (c *ipcClient) readLoop() {
	defer c.close()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			c.logger.Debug("mpv: skipping malformed line", slog.Any("error", err))
			continue
		}

		if msg.Event != "" {
			c.handleEvent(msg)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[msg.RequestID]
		c.mu.Unlock()
		if !ok {
			continue
		}

		reply := ipcReply{data: msg.Data}
		switch msg.Error {
		case "success", "":
		case "property unavailable":
			reply.err = errPropertyUnavailable
		default:
			reply.err = fmt.Errorf("mpv: %s", msg.Error)
		}
		ch <- reply
	}
	if err := scanner.Err(); err != nil {
		c.logger.Debug("mpv: read loop ended", slog.Any("error", err))
	}
}

func (c *ipcClient) handleEvent(msg ipcMessage) {
	var ev Event
	switch msg.Event {
	case "start-file":
		ev.State = StateBuffering
	case "file-loaded":
		ev.State = StatePlaying
	case "property-change":
		if msg.Name != "pause" {
			return
		}
		var paused bool
		if err := json.Unmarshal(msg.Data, &paused); err != nil {
			return
		}
		ev.State = StatePlaying
		if paused {
			ev.State = StatePaused
		}
	case "end-file":
		switch msg.Reason {
		case "eof":
			ev.State = StateEnded
		case "error":
			ev.State = StateUnstarted
			ev.Err = fmt.Errorf("mpv: playback error: %s", msg.FileError)
		default:
			return
		}
	default:
		return
	}

	select {
	case c.events <- ev:
	default:
		c.logger.Warn("mpv: event dropped, consumer too slow", slog.String("state", ev.State.String()))
	}
}

func (c *ipcClient) close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}
