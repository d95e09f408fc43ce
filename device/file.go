package device

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vasalvit/svgplot/gcode"
)

// File writes commands to a command file, one per line after the
// gcode.Header line. Write errors are logged and dropped.
type File struct {
	w      io.WriteCloser
	logger *log.Logger
}

// CreateFile creates (or truncates) the command file at path.
func CreateFile(path string, logger *log.Logger) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating command file: %w", err)
	}
	return NewFile(f, logger), nil
}

// NewFile writes the header to w and returns a channel writing to it.
func NewFile(w io.WriteCloser, logger *log.Logger) *File {
	if logger == nil {
		logger = log.Default()
	}
	f := &File{w: w, logger: logger}
	f.writeLine(gcode.Header)
	return f
}

// Dialect implements Channel.
func (f *File) Dialect() Dialect {
	return DialectFile
}

// Send appends cmd to the file.
func (f *File) Send(cmd gcode.Command) Outcome {
	out := Outcome{Command: cmd.String(), Status: StatusWritten}
	if err := f.writeLine(out.Command); err != nil {
		out.Status = StatusIgnored
		out.Err = err
	}
	return out
}

func (f *File) writeLine(s string) error {
	if _, err := io.WriteString(f.w, s+"\n"); err != nil {
		err = fmt.Errorf("%w: %v", ErrConnection, err)
		f.logger.Warn("ignoring write error", "line", s, "err", err)
		return err
	}
	return nil
}

// Close closes the underlying writer.
func (f *File) Close() error {
	return f.w.Close()
}
