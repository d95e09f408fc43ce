// Package device delivers plotter commands, either to a Line-us style
// plotter over TCP or to a command file.
//
// Transport failures never abort a plot. Send reports them in the
// returned Outcome and the caller carries on with the next command;
// a long unattended plot loses a stroke rather than the whole job.
package device

import (
	"errors"

	"github.com/vasalvit/svgplot/gcode"
)

var (
	// ErrTimeout means the plotter did not answer within the response timeout.
	ErrTimeout = errors.New("response timed out")
	// ErrNegativeAck means the plotter answered with something other than ok.
	ErrNegativeAck = errors.New("negative acknowledgement")
	// ErrConnection means reading or writing the transport failed.
	ErrConnection = errors.New("connection error")
	// ErrNotConnected is reported by a network channel that never connected.
	ErrNotConnected = errors.New("not connected")
	// ErrInvalidHandshake means the greeting did not start with hello or
	// lacked a required field.
	ErrInvalidHandshake = errors.New("invalid handshake")
)

// Dialect selects how pen state is expressed in the command stream.
type Dialect int

const (
	// DialectStream sends pen changes as separate commands and expects
	// an acknowledgement for each command.
	DialectStream Dialect = iota
	// DialectFile folds the pen height into every move.
	DialectFile
)

// Status summarises what happened to a sent command.
type Status int

const (
	// StatusAcked means the plotter acknowledged the first transmission.
	StatusAcked Status = iota
	// StatusRetried means the first answer was not an acknowledgement and
	// the command was sent once more. The second answer is accepted
	// whatever it is; Err holds the failure if it was not an ack either.
	StatusRetried
	// StatusWritten means the command was written to a command file.
	StatusWritten
	// StatusDisconnected means there is no plotter to talk to.
	StatusDisconnected
	// StatusIgnored means a transport error was swallowed; Err holds it.
	StatusIgnored
)

func (s Status) String() string {
	switch s {
	case StatusAcked:
		return "acked"
	case StatusRetried:
		return "retried"
	case StatusWritten:
		return "written"
	case StatusDisconnected:
		return "disconnected"
	case StatusIgnored:
		return "ignored"
	}
	return "unknown"
}

// Outcome is the result of sending one command.
type Outcome struct {
	Command  string
	Response string
	Status   Status
	Err      error
}

// Delivered reports whether the command reached the plotter or file
// without a recorded failure.
func (o Outcome) Delivered() bool {
	return o.Err == nil && (o.Status == StatusAcked || o.Status == StatusRetried || o.Status == StatusWritten)
}

// Channel is where a plot job sends its commands. Send never fails the
// job; Close releases the transport.
type Channel interface {
	Send(cmd gcode.Command) Outcome
	Dialect() Dialect
	Close() error
}
