package device

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasalvit/svgplot/gcode"
)

const (
	replySilent = ""
	replyClose  = "\x7fclose"
)

// fakePlotter accepts one connection and answers every command with the
// next scripted reply, or "ok" once the script runs out.
type fakePlotter struct {
	ln       net.Listener
	greeting string

	mu       sync.Mutex
	replies  []string
	received []string
}

func newFakePlotter(t *testing.T, greeting string, replies ...string) *fakePlotter {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	p := &fakePlotter{ln: ln, greeting: greeting, replies: replies}
	go p.serve()
	t.Cleanup(func() { ln.Close() })
	return p
}

func (p *fakePlotter) serve() {
	conn, err := p.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	if p.greeting != "" {
		conn.Write([]byte(p.greeting + "\x00"))
	}

	r := bufio.NewReader(conn)
	for {
		frame, err := r.ReadString(0)
		if err != nil {
			return
		}

		p.mu.Lock()
		p.received = append(p.received, strings.TrimSuffix(frame, "\r\n\x00"))
		reply := "ok"
		if len(p.replies) > 0 {
			reply, p.replies = p.replies[0], p.replies[1:]
		}
		p.mu.Unlock()

		switch reply {
		case replySilent:
		case replyClose:
			return
		default:
			conn.Write([]byte(reply + "\x00"))
		}
	}
}

func (p *fakePlotter) commands() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.received...)
}

func testOptions(addr string) NetworkOptions {
	return NetworkOptions{
		Address:         addr,
		DialTimeout:     time.Second,
		ResponseTimeout: 100 * time.Millisecond,
		PollInterval:    5 * time.Millisecond,
		RetryBackoff:    time.Millisecond,
	}
}

func dial(t *testing.T, p *fakePlotter) (*Network, *[]time.Duration) {
	t.Helper()
	n := Dial(context.Background(), testOptions(p.ln.Addr().String()), log.New(io.Discard))
	require.True(t, n.Connected())
	t.Cleanup(func() { n.Close() })

	var slept []time.Duration
	n.sleep = func(d time.Duration) { slept = append(slept, d) }
	return n, &slept
}

func TestSendAcknowledged(t *testing.T) {
	p := newFakePlotter(t, "")
	n, slept := dial(t, p)

	out := n.Send(gcode.Move(1, 2))
	assert.Equal(t, StatusAcked, out.Status)
	assert.NoError(t, out.Err)
	assert.Equal(t, "ok", out.Response)
	assert.True(t, out.Delivered())
	assert.Empty(t, *slept)

	if diff := cmp.Diff([]string{"G01 X1 Y2"}, p.commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestSendNegativeAckRetriesOnce(t *testing.T) {
	p := newFakePlotter(t, "", "error: busy", "ok")
	n, slept := dial(t, p)

	out := n.Send(gcode.Pen(1000))
	assert.Equal(t, StatusRetried, out.Status)
	assert.NoError(t, out.Err)
	assert.Equal(t, []time.Duration{time.Millisecond}, *slept)

	if diff := cmp.Diff([]string{"G01 Z1000", "G01 Z1000"}, p.commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestSendAcceptsSecondFailure(t *testing.T) {
	p := newFakePlotter(t, "", "error", "error")
	n, _ := dial(t, p)

	out := n.Send(gcode.Move(5, 5))
	assert.Equal(t, StatusRetried, out.Status)
	assert.ErrorIs(t, out.Err, ErrNegativeAck)
	assert.Equal(t, "error", out.Response)
	assert.False(t, out.Delivered())

	out = n.Send(gcode.Move(6, 6))
	assert.Equal(t, StatusAcked, out.Status)

	if diff := cmp.Diff([]string{"G01 X5 Y5", "G01 X5 Y5", "G01 X6 Y6"}, p.commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestSendSkipsEmptyFrames(t *testing.T) {
	p := newFakePlotter(t, "", "\x00ok", "ok")
	n, slept := dial(t, p)

	out := n.Send(gcode.Move(1, 2))
	assert.Equal(t, StatusAcked, out.Status)
	assert.Equal(t, "ok", out.Response)
	assert.Empty(t, *slept)

	out = n.Send(gcode.Move(3, 4))
	assert.Equal(t, StatusAcked, out.Status)
	assert.Equal(t, "ok", out.Response)

	if diff := cmp.Diff([]string{"G01 X1 Y2", "G01 X3 Y4"}, p.commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestSendTimeout(t *testing.T) {
	p := newFakePlotter(t, "", replySilent, replySilent)
	n, _ := dial(t, p)

	out := n.Send(gcode.Move(1, 1))
	assert.Equal(t, StatusRetried, out.Status)
	assert.Equal(t, TimeoutResponse, out.Response)
	assert.ErrorIs(t, out.Err, ErrTimeout)
	assert.Len(t, p.commands(), 2)
}

func TestSendConnectionLostIsIgnored(t *testing.T) {
	p := newFakePlotter(t, "", replyClose)
	n, _ := dial(t, p)

	out := n.Send(gcode.Move(1, 1))
	assert.Equal(t, StatusIgnored, out.Status)
	assert.ErrorIs(t, out.Err, ErrConnection)
}

func TestDialFailureIsDisconnected(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	n := Dial(context.Background(), testOptions(addr), log.New(io.Discard))
	assert.False(t, n.Connected())
	assert.Equal(t, DialectStream, n.Dialect())

	out := n.Send(gcode.Pen(0))
	assert.Equal(t, StatusDisconnected, out.Status)
	assert.ErrorIs(t, out.Err, ErrNotConnected)
	assert.Equal(t, "G01 Z0", out.Command)

	_, err = n.Hello()
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, n.Close())
}

func TestHello(t *testing.T) {
	p := newFakePlotter(t, `hello VERSION:"3.1.1 2019-06-08" NAME:lineus SERIAL:354123`)
	n, _ := dial(t, p)

	h, err := n.Hello()
	require.NoError(t, err)
	assert.Equal(t, "3.1.1 2019-06-08", h.Version)
	assert.Equal(t, "354123", h.Serial)
	assert.Equal(t, "lineus", h.Fields["NAME"])
	assert.Equal(t, "Version: 3.1.1 2019-06-08\nSerial: 354123.", h.String())
}

func TestParseHelloInvalid(t *testing.T) {
	for _, resp := range []string{
		"",
		"goodbye VERSION:1 SERIAL:2",
		"ok",
		"hello NAME:lineus",
		"hello VERSION:1",
		`hello VERSION:"unterminated`,
		TimeoutResponse,
	} {
		h, err := ParseHello(resp)
		assert.Nil(t, h, resp)
		assert.ErrorIs(t, err, ErrInvalidHandshake, resp)
	}
}
