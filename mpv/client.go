// Package mpv drives an mpv process over its JSON IPC socket and adapts it
// to player.Player.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/user/reactvid-cli/player"
)

const (
	// DefaultSocketPath is the default Unix socket path for mpv IPC.
	DefaultSocketPath = "/tmp/reactvid-mpv.sock"

	// commandTimeout bounds one request/response round trip.
	commandTimeout = 2 * time.Second
	readyPoll      = 100 * time.Millisecond
)

var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when nothing is listening on the socket.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
)

type ipcRequest struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

// ipcResponse is either a reply (RequestID set) or an unsolicited event.
type ipcResponse struct {
	Data      any    `json:"data"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
	Event     string `json:"event"`
}

// Client talks to one mpv instance. Calls are serialized; a transport
// failure drops the connection so IsConnected reports the loss.
type Client struct {
	socketPath string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64
}

var _ player.Player = (*Client)(nil)

// NewClient creates a new mpv IPC client.
// If socketPath is empty, DefaultSocketPath is used.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{socketPath: socketPath}
}

// Connect dials the socket. It is a no-op when already connected.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("unix", c.socketPath, commandTimeout)
	if err != nil {
		return fmt.Errorf("%w (%s)", ErrSocketNotFound, c.socketPath)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Ready connects, retrying until mpv opens its socket or ctx is done.
func (c *Client) Ready(ctx context.Context) error {
	ticker := time.NewTicker(readyPoll)
	defer ticker.Stop()

	for {
		err := c.Connect()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to connect to mpv: %w", err)
		case <-ticker.C:
		}
	}
}

// Close closes the connection to mpv.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropLocked()
}

func (c *Client) dropLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.reader = nil, nil
	return err
}

// IsConnected returns true if the client is connected to mpv.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SocketPath returns the socket path this client is configured to use.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// GetProperty retrieves the value of an mpv property (e.g. "time-pos", "pause").
func (c *Client) GetProperty(name string) (any, error) {
	return c.call("get_property", name)
}

// SetProperty sets the value of an mpv property.
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.call("set_property", name, value)
	return err
}

// CurrentTime returns the playback position in seconds.
func (c *Client) CurrentTime() (float64, error) {
	return property(c, "time-pos", toFloat64)
}

// Duration returns the length of the loaded media in seconds.
func (c *Client) Duration() (float64, error) {
	return property(c, "duration", toFloat64)
}

// Title returns mpv's media title (the file name or the stream title).
func (c *Client) Title() (string, error) {
	return property(c, "media-title", as[string])
}

// Paused returns true if playback is paused.
func (c *Client) Paused() (bool, error) {
	return property(c, "pause", as[bool])
}

// Seek jumps to an absolute position in seconds.
func (c *Client) Seek(seconds float64) error {
	_, err := c.call("seek", max(seconds, 0), "absolute")
	return err
}

// TogglePause flips between playing and paused.
func (c *Client) TogglePause() error {
	_, err := c.call("cycle", "pause")
	return err
}

// property reads name and converts the decoded JSON value.
func property[T any](c *Client, name string, convert func(any) (T, error)) (T, error) {
	raw, err := c.GetProperty(name)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := convert(raw)
	if err != nil {
		return v, fmt.Errorf("mpv: %s: %w", name, err)
	}
	return v, nil
}

func as[T any](v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		return t, fmt.Errorf("unexpected value type %T", v)
	}
	return t, nil
}

// toFloat64 converts a decoded JSON number to float64. mpv reports null
// before a file is loaded, which reads as 0.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected numeric value type %T", v)
	}
}

// call writes {"command": [...], "request_id": n} and reads lines until the
// reply with the same id arrives. Event lines in between are skipped.
func (c *Client) call(command string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	c.nextID++
	id := c.nextID
	payload, err := json.Marshal(ipcRequest{Command: append([]any{command}, args...), RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("mpv: encoding %s: %w", command, err)
	}

	_ = c.conn.SetDeadline(time.Now().Add(commandTimeout))
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		c.dropLocked()
		return nil, fmt.Errorf("mpv: sending %s: %w", command, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			c.dropLocked()
			return nil, fmt.Errorf("mpv: reading %s reply: %w", command, err)
		}

		var resp ipcResponse
		if json.Unmarshal(line, &resp) != nil || resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s: %s", command, resp.Error)
		}
		return resp.Data, nil
	}
}
