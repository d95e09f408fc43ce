package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vasalvit/svgplot/gcode"
)

const (
	// DefaultAddress is where a Line-us plotter listens on the local network.
	DefaultAddress = "line-us.local:1337"

	// TimeoutResponse stands in for the answer when none arrived in time.
	TimeoutResponse = "Time_out"

	// terminator ends every command on the wire
	terminator = "\r\n\x00"
	// ackMarker starts every positive answer ("ok ...")
	ackMarker = "o"
)

// NetworkOptions configures a network channel. Zero fields take the
// values of DefaultNetworkOptions.
type NetworkOptions struct {
	Address         string
	DialTimeout     time.Duration
	ResponseTimeout time.Duration
	PollInterval    time.Duration
	RetryBackoff    time.Duration
}

// DefaultNetworkOptions returns the plotter's usual settings.
func DefaultNetworkOptions() NetworkOptions {
	return NetworkOptions{
		Address:         DefaultAddress,
		DialTimeout:     5 * time.Second,
		ResponseTimeout: 10 * time.Second,
		PollInterval:    10 * time.Millisecond,
		RetryBackoff:    500 * time.Millisecond,
	}
}

func (o NetworkOptions) withDefaults() NetworkOptions {
	d := DefaultNetworkOptions()
	if o.Address == "" {
		o.Address = d.Address
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = d.DialTimeout
	}
	if o.ResponseTimeout <= 0 {
		o.ResponseTimeout = d.ResponseTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = d.RetryBackoff
	}
	return o
}

// Network talks to a plotter over TCP. Every command waits for the
// plotter's null terminated answer before the next one is sent.
type Network struct {
	conn   net.Conn
	r      *bufio.Reader
	opts   NetworkOptions
	logger *log.Logger
	sleep  func(time.Duration)
}

// Dial connects to the plotter. A failed connection is logged and
// yields a disconnected channel that accepts and drops every command,
// so a job can still run to completion.
func Dial(ctx context.Context, opts NetworkOptions, logger *log.Logger) *Network {
	opts = opts.withDefaults()
	if logger == nil {
		logger = log.Default()
	}

	d := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", opts.Address)
	if err != nil {
		logger.Warn("not connected", "address", opts.Address, "err", err)
		return &Network{opts: opts, logger: logger, sleep: time.Sleep}
	}
	logger.Debug("connected", "address", opts.Address)
	return NewNetwork(conn, opts, logger)
}

// NewNetwork wraps an established connection.
func NewNetwork(conn net.Conn, opts NetworkOptions, logger *log.Logger) *Network {
	if logger == nil {
		logger = log.Default()
	}
	return &Network{
		conn:   conn,
		r:      bufio.NewReader(conn),
		opts:   opts.withDefaults(),
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Connected reports whether the channel has a live connection.
func (n *Network) Connected() bool {
	return n.conn != nil
}

// Dialect implements Channel.
func (n *Network) Dialect() Dialect {
	return DialectStream
}

// Send transmits cmd and waits for the answer. An answer that is not an
// acknowledgement, including a timeout, causes exactly one
// retransmission after the retry backoff; its answer is accepted as is.
func (n *Network) Send(cmd gcode.Command) Outcome {
	out := Outcome{Command: cmd.String()}
	if n.conn == nil {
		out.Status = StatusDisconnected
		out.Err = ErrNotConnected
		return out
	}

	attempts := 0
	err := retry(2, n.opts.RetryBackoff, n.sleep, func() error {
		attempts++
		if attempts > 1 {
			n.logger.Warn("repeating command", "cmd", out.Command)
		}

		resp, err := n.exchange(out.Command)
		out.Response = resp
		if err != nil {
			return err
		}
		n.logger.Debug("response", "cmd", out.Command, "response", resp)

		switch {
		case strings.HasPrefix(resp, ackMarker):
			return nil
		case resp == TimeoutResponse:
			n.logger.Warn("no response", "cmd", out.Command)
			return &retryableError{ErrTimeout}
		default:
			n.logger.Warn("command not acknowledged", "cmd", out.Command, "response", resp)
			return &retryableError{fmt.Errorf("%w: %q", ErrNegativeAck, resp)}
		}
	})

	switch {
	case err != nil && !isRetryable(err):
		n.logger.Warn("ignoring transport error", "cmd", out.Command, "err", err)
		out.Status = StatusIgnored
		out.Err = err
	case attempts > 1:
		out.Status = StatusRetried
		out.Err = err
	default:
		out.Status = StatusAcked
	}
	return out
}

// exchange writes one framed command and reads the answer.
func (n *Network) exchange(raw string) (string, error) {
	if err := n.conn.SetWriteDeadline(time.Now().Add(n.opts.ResponseTimeout)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if _, err := n.conn.Write([]byte(raw + terminator)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// empty frames are not answers; keep reading until the timeout
	deadline := time.Now().Add(n.opts.ResponseTimeout)
	for {
		resp, err := n.readResponse()
		if err != nil || resp != "" {
			return resp, err
		}
		if !time.Now().Before(deadline) {
			return TimeoutResponse, nil
		}
	}
}

// readResponse collects bytes up to a null byte. When nothing arrives
// for the response timeout it gives up and returns TimeoutResponse.
func (n *Network) readResponse() (string, error) {
	var buf []byte
	var idle time.Duration

	for idle < n.opts.ResponseTimeout {
		if err := n.conn.SetReadDeadline(time.Now().Add(n.opts.PollInterval)); err != nil {
			return "", fmt.Errorf("%w: %v", ErrConnection, err)
		}

		b, err := n.r.ReadByte()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				idle += n.opts.PollInterval
				continue
			}
			return string(buf), fmt.Errorf("%w: %v", ErrConnection, err)
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
		idle = 0
	}
	return TimeoutResponse, nil
}

// Close closes the connection, if any.
func (n *Network) Close() error {
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}
