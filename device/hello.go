package device

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Hello is the identity a plotter announces when a client connects.
type Hello struct {
	Version string
	Serial  string
	Fields  map[string]string
}

func (h *Hello) String() string {
	return fmt.Sprintf("Version: %s\nSerial: %s.", h.Version, h.Serial)
}

// ParseHello parses a greeting such as
//
//	hello VERSION:"3.1.1 2019-06-08" NAME:lineus SERIAL:123456
//
// It must start with the hello token and carry VERSION and SERIAL.
func ParseHello(resp string) (*Hello, error) {
	tokens, err := shlex.Split(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandshake, err)
	}
	if len(tokens) == 0 || tokens[0] != "hello" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHandshake, resp)
	}

	h := &Hello{Fields: make(map[string]string)}
	for _, tok := range tokens[1:] {
		k, v, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		h.Fields[k] = v
	}

	var found bool
	if h.Version, found = h.Fields["VERSION"]; !found {
		return nil, fmt.Errorf("%w: no VERSION in %q", ErrInvalidHandshake, resp)
	}
	if h.Serial, found = h.Fields["SERIAL"]; !found {
		return nil, fmt.Errorf("%w: no SERIAL in %q", ErrInvalidHandshake, resp)
	}
	return h, nil
}

// Hello reads the greeting the plotter sends after connecting.
func (n *Network) Hello() (*Hello, error) {
	if n.conn == nil {
		return nil, ErrNotConnected
	}
	resp, err := n.readResponse()
	if err != nil {
		return nil, err
	}
	n.logger.Debug("greeting", "response", resp)
	return ParseHello(resp)
}
