// internal/writers/file.go
package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Stdout is the destination that writes to the process's standard output.
const Stdout = "-"

// OutputError reports a destination that could not be created or written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// WriteFile renders a document through render into path. For Stdout the
// document goes to stdout; otherwise it is written to a temporary file next
// to path and renamed over it once render and the flush succeeded.
func WriteFile(path string, stdout io.Writer, render func(io.Writer) error) error {
	if path == Stdout {
		bw := bufio.NewWriter(stdout)
		err := render(bw)
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && !IsBrokenPipe(err) {
			return &OutputError{Path: "stdout", Err: err}
		}
		return nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriterSize(tmp, 64<<10)
	if err := render(bw); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		committed = true
		return &OutputError{Path: path, Err: err}
	}
	committed = true
	return nil
}
