package websh

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// continuationPrompt is echoed while a multi-line session is collecting
// input, mirroring the secondary prompt of a conventional shell.
const continuationPrompt = "> "

// captureSession is the in-progress state of a heredoc or raw-input
// capture. Exactly one session may be active per interpreter; while it is
// open all input bypasses dispatch and is routed here.
type captureSession struct {
	kind       captureKind
	path       string
	appendMode bool
	terminator string
	lines      []string
}

// feedCapture routes one raw input line to the active session. Lines are
// buffered verbatim until the terminating condition: the terminator word
// for a heredoc, a blank line for raw input. On termination the buffer is
// flushed to the target file and the session is cleared. A failed flush
// also clears the session; the buffered content is discarded, never
// retried.
func (it *Interpreter) feedCapture(raw, cwd string) Result {
	s := it.session

	var done bool
	switch s.kind {
	case captureHeredoc:
		done = strings.TrimSpace(raw) == s.terminator
	case captureRawInput:
		done = strings.TrimSpace(raw) == ""
	}

	if !done {
		s.lines = append(s.lines, raw)
		return Result{Stdout: continuationPrompt, Dir: cwd}
	}

	it.session = nil
	if err := it.flushCapture(s); err != nil {
		return Result{
			Stderr: fmt.Sprintf("cat: write error: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}
	return Result{Dir: cwd}
}

// flushCapture writes the buffered lines, newline-joined with a trailing
// newline, to the session's target file in the requested mode.
func (it *Interpreter) flushCapture(s *captureSession) error {
	flag := os.O_WRONLY | os.O_CREATE
	if s.appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := it.fs.OpenFile(s.path, flag, 0o644)
	if err != nil {
		return err
	}
	_, werr := io.WriteString(f, strings.Join(s.lines, "\n")+"\n")
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
