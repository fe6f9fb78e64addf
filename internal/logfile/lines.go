// internal/logfile/lines.go
package logfile

import (
	"bufio"
	"context"
	"io"
)

// ctxEvery is how many lines pass between cancellation checks.
const ctxEvery = 4096

// EachLine calls fn for every line of r, numbered from 1, without the line
// terminator. Lines have no length limit. A final line without a newline is
// still delivered. Read errors are returned as *AccessError naming path.
func EachLine(ctx context.Context, path string, r io.Reader, fn func(lineNo int, line string)) error {
	br := bufio.NewReaderSize(r, 64<<10)
	for n := 1; ; n++ {
		if n%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line, err := br.ReadString('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return &AccessError{Path: path, Err: err}
		}
		if eof && len(line) == 0 {
			return nil
		}
		line = trimEOL(line)
		fn(n, line)
		if eof {
			return nil
		}
	}
}

// ForEachLine opens path and feeds its lines to fn.
func ForEachLine(ctx context.Context, path string, fn func(lineNo int, line string)) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return EachLine(ctx, path, rc, fn)
}

func trimEOL(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}
