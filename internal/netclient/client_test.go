package netclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/AllyssinXD/card-game-web/internal/protocol"
)

type inboundRecorder struct {
	mu   sync.Mutex
	msgs []protocol.Message
}

func (r *inboundRecorder) ApplyInbound(msg protocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *inboundRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

var upgrader = websocket.Upgrader{}

// testServer upgrades one connection, pushes the given frames, then echoes
// received actions into actions.
func testServer(t *testing.T, frames []string, actions chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("username"); got == "" {
			t.Error("username query parameter missing")
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if actions != nil {
				actions <- string(data)
			}
		}
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestClientDeliversInboundInOrder(t *testing.T) {
	srv := testServer(t, []string{
		`{"yourId":"p1"}`,
		`{"gameState":"GOING","turn":"p1"}`,
		`{"event":"BUYED_p2"}`,
	}, nil)
	defer srv.Close()

	rec := &inboundRecorder{}
	c := New(wsURL(srv), "ally", rec)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitFor(t, 2*time.Second, func() bool { return rec.count() == 3 })

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.msgs[0].YourID == nil || *rec.msgs[0].YourID != "p1" {
		t.Errorf("first message = %+v, want yourId p1", rec.msgs[0])
	}
	if rec.msgs[1].GameState == nil || *rec.msgs[1].GameState != "GOING" {
		t.Errorf("second message = %+v, want gameState GOING", rec.msgs[1])
	}
	if rec.msgs[2].Event == nil || *rec.msgs[2].Event != "BUYED_p2" {
		t.Errorf("third message = %+v, want event BUYED_p2", rec.msgs[2])
	}
}

func TestClientSendsActions(t *testing.T) {
	actions := make(chan string, 1)
	srv := testServer(t, nil, actions)
	defer srv.Close()

	rec := &inboundRecorder{}
	c := New(wsURL(srv), "ally", rec)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		return c.Send(protocol.StartGame()) == nil
	})

	select {
	case got := <-actions:
		var a protocol.Action
		if err := json.Unmarshal([]byte(got), &a); err != nil {
			t.Fatalf("server received non-JSON action: %q", got)
		}
		if a.Action != "START_GAME" {
			t.Errorf("action = %q, want START_GAME", a.Action)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the action")
	}
}

func TestSendWhileDisconnected(t *testing.T) {
	c := New("ws://127.0.0.1:1/ws", "ally", &inboundRecorder{})
	if err := c.Send(protocol.Buy()); err == nil {
		t.Error("Send() without connection should error")
	}
}

func TestSendRateLimited(t *testing.T) {
	srv := testServer(t, nil, make(chan string, 64))
	defer srv.Close()

	rec := &inboundRecorder{}
	c := New(wsURL(srv), "ally", rec)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		return c.Send(protocol.Buy()) == nil
	})

	// Exhaust the burst; at least one rapid-fire send must be rejected.
	var limited bool
	for i := 0; i < 10; i++ {
		if err := c.Send(protocol.Buy()); err != nil {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("rapid-fire sends were never rate limited")
	}
}

func TestNextBackoffDoublesToCap(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{time.Second, 2 * time.Second},
		{2 * time.Second, 4 * time.Second},
		{16 * time.Second, 30 * time.Second},
		{30 * time.Second, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := nextBackoff(tt.in); got != tt.want {
			t.Errorf("nextBackoff(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := New("ws://example.invalid/ws", "ally", &inboundRecorder{})
	c.Close()
	c.Close()
}

func TestPingAndSendSerializeWrites(t *testing.T) {
	actions := make(chan string, 256)
	srv := testServer(t, nil, actions)
	defer srv.Close()

	rec := &inboundRecorder{}
	c := New(wsURL(srv), "ally", rec)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.conn != nil
	})
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	// Pings and actions on separate goroutines; the websocket panics on
	// concurrent writers, so completing cleanly is the assertion.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := c.writePing(conn); err != nil {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := c.Send(protocol.Play("c1")); err != nil {
				return
			}
		}
	}()
	wg.Wait()
}
