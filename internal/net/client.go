package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"RoomBoard/internal/store"
)

// Client is the socket side of the sync client. Sends are fire-and-forget:
// a frame is written immediately and never acknowledged.
type Client struct {
	conn *websocket.Conn
	log  *slog.Logger

	mu sync.Mutex
}

// WebsocketURL turns an http(s) server address into its ws(s) sync endpoint
// carrying token.
func WebsocketURL(server, token string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens the sync socket.
func Dial(ctx context.Context, server, token string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	target, err := WebsocketURL(server, token)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", server, err)
	}
	return &Client{conn: conn, log: logger.With("component", "sync")}, nil
}

// Send writes one frame.
func (c *Client) Send(msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

func (c *Client) Join(room string) error  { return c.Send(Join(room)) }
func (c *Client) Leave(room string) error { return c.Send(Leave(room)) }

// Listen reads frames until the connection closes, handing each decoded
// message to handle in arrival order. Malformed frames are logged and skipped.
func (c *Client) Listen(handle func(Message)) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		msg, err := Decode(data)
		if err != nil {
			c.log.Warn("dropping message", "error", err)
			continue
		}
		handle(msg)
	}
}

// Close sends a close frame and closes the socket.
func (c *Client) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.mu.Unlock()
	return c.conn.Close()
}

// FetchShapes performs the one-shot bootstrap read of a room's persisted
// canvas. A missing room yields store.ErrRoomNotFound.
func FetchShapes(ctx context.Context, hc *http.Client, server, room string) ([]json.RawMessage, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	endpoint := strings.TrimSuffix(server, "/") + "/rooms/" + url.PathEscape(room) + "/shapes"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch shapes: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch shapes %s: %w", room, store.ErrRoomNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch shapes: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var shapes []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&shapes); err != nil {
		return nil, fmt.Errorf("decode shapes: %w", err)
	}
	if shapes == nil {
		shapes = []json.RawMessage{}
	}
	return shapes, nil
}

// IsNotFound reports whether err means the room does not exist.
func IsNotFound(err error) bool { return errors.Is(err, store.ErrRoomNotFound) }
