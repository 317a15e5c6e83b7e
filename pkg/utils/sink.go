package utils

import (
	"errors"
	"io"
	"os"

	"github.com/ginjaninja78/edifact-orders/internal/ediwriter"
	"github.com/ginjaninja78/edifact-orders/internal/types"
)

// FileSink writes a generated message to Path, replacing any existing file.
type FileSink struct {
	Path string
}

// WriteMessage writes msg.Text. The file is always closed; the first of the
// create, write and close errors is returned as a *types.IOError.
func (s FileSink) WriteMessage(msg *ediwriter.Message) (err error) {
	f, err := os.Create(s.Path)
	if err != nil {
		return &types.IOError{Path: s.Path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &types.IOError{Path: s.Path, Err: cerr}
		}
	}()

	if _, werr := io.WriteString(f, msg.Text); werr != nil {
		return &types.IOError{Path: s.Path, Err: werr}
	}
	return nil
}

// WriterSink writes a generated message to an io.Writer, for example stdout.
type WriterSink struct {
	W io.Writer
}

// WriteMessage writes msg.Text followed by a newline.
func (s WriterSink) WriteMessage(msg *ediwriter.Message) error {
	if s.W == nil {
		return &types.IOError{Err: errors.New("no writer")}
	}
	if _, err := io.WriteString(s.W, msg.Text+"\n"); err != nil {
		return &types.IOError{Err: err}
	}
	return nil
}
