package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/logging"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("relay connection closed")

// Client is a domain.MessageRelay over a websocket connection to a Server.
type Client struct {
	conn   *websocket.Conn
	log    *zap.Logger
	frames chan domain.Frame

	wmu       sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the gateway at wsURL (ws:// or wss://).
func Dial(ctx context.Context, wsURL string, log *zap.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", wsURL, err)
	}
	c := &Client{
		conn:   conn,
		log:    logging.OrNop(log),
		frames: make(chan domain.Frame, DefaultMemberBuffer),
		done:   make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

// GatewayURL turns a relay base URL (http://host:port) into its websocket
// gateway URL (ws://host:port/ws).
func GatewayURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("relay url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("relay url %q: unsupported scheme %q", base, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("relay url %q: missing host", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

func (c *Client) Join(ctx context.Context, username domain.Username) error {
	return c.write(ctx, domain.Frame{Event: domain.EventJoin, Username: username})
}

func (c *Client) Leave(ctx context.Context, username domain.Username) error {
	return c.write(ctx, domain.Frame{Event: domain.EventLeave, Username: username})
}

func (c *Client) Chat(ctx context.Context, env domain.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return c.write(ctx, domain.Frame{Event: domain.EventChat, Envelope: raw})
}

func (c *Client) Frames() <-chan domain.Frame { return c.frames }

// Close sends a close frame and tears down the connection. Frames is closed
// once the read pump exits.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.wmu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.wmu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) write(ctx context.Context, f domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("relay write %s: %w", f.Event, err)
	}
	return nil
}

func (c *Client) readPump() {
	defer close(c.frames)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.log.Warn("relay read failed", zap.Error(err))
				}
			}
			return
		}
		var f domain.Frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.log.Warn("malformed relay frame", zap.Error(err))
			continue
		}
		select {
		case c.frames <- f:
		case <-c.done:
			return
		}
	}
}

var _ domain.MessageRelay = (*Client)(nil)
