package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// IPC constants
const (
	ipcReplyTimeout   = 2 * time.Second
	ipcEventBuffer    = 64
	ipcMaxLineBytes   = 1 << 20
	ipcSuccess        = "success"
	ipcNetworkUnix    = "unix"
	ipcPauseObserveID = 1
)

var errIPCClosed = errors.New("mpv ipc connection closed")

// ipcEvent is an asynchronous message from mpv
type ipcEvent struct {
	Event     string          `json:"event"`
	ID        int64           `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
}

// ipcConn is a JSON IPC session with an mpv process
type ipcConn interface {
	Command(args ...any) (json.RawMessage, error)
	Events() <-chan ipcEvent
	Close() error
}

// ipcMessage covers both replies and events; replies carry request_id
type ipcMessage struct {
	ipcEvent
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
}

type ipcReply struct {
	data json.RawMessage
	err  error
}

// socketConn speaks mpv's line-delimited JSON protocol over a unix socket
type socketConn struct {
	conn    net.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan ipcReply

	events    chan ipcEvent
	closed    chan struct{}
	closeOnce sync.Once
}

// dialSocket connects to an mpv --input-ipc-server socket
func dialSocket(ctx context.Context, path string) (ipcConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, ipcNetworkUnix, path)
	if err != nil {
		return nil, err
	}
	return newSocketConn(conn), nil
}

func newSocketConn(conn net.Conn) *socketConn {
	c := &socketConn{
		conn:    conn,
		pending: make(map[int64]chan ipcReply),
		events:  make(chan ipcEvent, ipcEventBuffer),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Command sends a command and waits for its reply
func (c *socketConn) Command(args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	reply := make(chan ipcReply, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	payload, err := json.Marshal(map[string]any{"command": args, "request_id": id})
	if err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write mpv command: %w", err)
	}

	select {
	case r := <-reply:
		return r.data, r.err
	case <-c.closed:
		return nil, errIPCClosed
	case <-time.After(ipcReplyTimeout):
		return nil, fmt.Errorf("mpv command %v: timed out", args)
	}
}

// Events returns the event stream; it is closed when the connection drops
func (c *socketConn) Events() <-chan ipcEvent {
	return c.events
}

// Close closes the socket
func (c *socketConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func (c *socketConn) readLoop() {
	defer close(c.events)
	defer c.Close()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), ipcMaxLineBytes)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Event != "" {
			select {
			case c.events <- msg.ipcEvent:
			case <-c.closed:
				return
			}
			continue
		}
		c.deliver(msg)
	}
}

func (c *socketConn) deliver(msg ipcMessage) {
	c.mu.Lock()
	reply, ok := c.pending[msg.RequestID]
	c.mu.Unlock()
	if !ok {
		return
	}

	r := ipcReply{data: msg.Data}
	if msg.Error != ipcSuccess {
		r.err = fmt.Errorf("mpv: %s", msg.Error)
	}
	reply <- r
}
