// Package netclient maintains the websocket connection to the game server.
// It delivers inbound messages in arrival order, one at a time, and carries
// outbound action commands. Connection loss is handled here with automatic
// reconnection; the state store just sees a gap with no inbound messages.
package netclient

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/AllyssinXD/card-game-web/internal/protocol"
)

const (
	// Time allowed to write a message to the server.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the server.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Reconnect backoff bounds.
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second

	// Outbound actions are limited to absorb pointer mashing; the server
	// rejects them anyway, this just avoids the spam.
	actionInterval = 200 * time.Millisecond
	actionBurst    = 3
)

// Inbound receives decoded server messages. Implemented by the state store.
// Each message is handled to completion before the next is delivered.
type Inbound interface {
	ApplyInbound(msg protocol.Message)
}

// Client is a reconnecting websocket client.
type Client struct {
	serverURL string
	username  string
	inbound   Inbound

	mu   sync.Mutex
	conn *websocket.Conn

	limiter *rate.Limiter

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a client for the given ws(s):// server URL. The username is
// passed as a query parameter on connect, as the server expects.
func New(serverURL, username string, inbound Inbound) *Client {
	return &Client{
		serverURL: serverURL,
		username:  username,
		inbound:   inbound,
		limiter:   rate.NewLimiter(rate.Every(actionInterval), actionBurst),
		done:      make(chan struct{}),
	}
}

// Run connects and keeps the connection alive until ctx is cancelled or
// Close is called, reconnecting with exponential backoff. Blocks; run it on
// its own goroutine.
func (c *Client) Run(ctx context.Context) {
	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		if err := c.connectAndRead(ctx); err != nil {
			log.Printf("[Net] Connection lost: %v (retrying in %s)", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}

// nextBackoff doubles up to the cap.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

// connectAndRead dials and pumps messages until the connection drops.
func (c *Client) connectAndRead(ctx context.Context) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	q := u.Query()
	q.Set("username", c.username)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.Host, err)
	}
	log.Printf("[Net] Connected to %s as %q", u.Host, c.username)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go c.pingLoop(conn, stopPing)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			// A frame this client cannot decode is dropped, not
			// fatal; the next merge resynchronizes.
			log.Printf("[Net] Dropping undecodable frame: %v", err)
			continue
		}
		c.inbound.ApplyInbound(msg)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.writePing(conn); err != nil {
				return
			}
		}
	}
}

// writePing shares the write lock with Send: the websocket connection
// allows a single concurrent writer.
func (c *Client) writePing(conn *websocket.Conn) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.PingMessage, nil)
}

// Send delivers an action command. Fails when disconnected or when the
// action rate limit is exceeded; the caller shows neither case as fatal.
func (c *Client) Send(action protocol.Action) error {
	if !c.limiter.Allow() {
		return fmt.Errorf("send %q: rate limited", action.Action)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("send %q: not connected", action.Action)
	}

	data, err := action.Encode()
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %q: %w", action.Action, err)
	}
	return nil
}

// Close stops the client. Idempotent.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
}
