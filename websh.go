// Package websh implements a line-oriented pseudo-shell: a fixed vocabulary
// of filesystem and system-introspection verbs interpreted one line at a
// time against an afero filesystem, returning structured results instead of
// writing to a terminal. Front ends (interactive loop, HTTP endpoint) live
// outside this package and feed lines to Interpreter.Execute.
package websh

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/telnet2/go-practice/go-websh/sysinfo"
)

// DefaultWorkDir is the working directory used when the caller does not
// supply one. It is created on first use.
const DefaultWorkDir = "/tmp"

// handlerFunc consumes the tokens after the verb plus the current working
// directory, and either produces a Result or asks to open a capture
// session.
type handlerFunc func(ctx context.Context, args []string, cwd string) (Result, *captureStart)

// Interpreter executes pseudo-shell command lines against a filesystem.
//
// The only mutable state is the optional multi-line capture session, so an
// Interpreter is not safe for concurrent use; construct one per logical
// command stream (one per user session) and serialize calls to it.
type Interpreter struct {
	fs      afero.Fs
	metrics sysinfo.Provider
	home    string
	session *captureSession
	verbs   map[string]handlerFunc
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMetrics replaces the system metrics provider. The default samples
// the host via gopsutil.
func WithMetrics(p sysinfo.Provider) Option {
	return func(it *Interpreter) { it.metrics = p }
}

// WithHome sets the directory "cd" with no argument changes to. The
// default is the current user's home directory.
func WithHome(dir string) Option {
	return func(it *Interpreter) { it.home = dir }
}

// New creates an interpreter over the given filesystem. A nil fs gets an
// in-memory filesystem.
func New(fs afero.Fs, opts ...Option) *Interpreter {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}

	it := &Interpreter{
		fs:      fs,
		metrics: sysinfo.New(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		it.home = home
	} else {
		it.home = DefaultWorkDir
	}
	for _, opt := range opts {
		opt(it)
	}

	it.verbs = map[string]handlerFunc{
		"pwd":         plain(it.cmdPwd),
		"cd":          plain(it.cmdCd),
		"ls":          plain(it.cmdLs),
		"mkdir":       plain(it.cmdMkdir),
		"rmdir":       plain(it.cmdRmdir),
		"rm":          plain(it.cmdRm),
		"cat":         it.cmdCat,
		"touch":       plain(it.cmdTouch),
		"mv":          plain(it.cmdMv),
		"cp":          plain(it.cmdCp),
		"echo":        plain(it.cmdEcho),
		"head":        plain(it.cmdHead),
		"tail":        plain(it.cmdTail),
		"wc":          plain(it.cmdWc),
		"grep":        plain(it.cmdGrep),
		"find":        plain(it.cmdFind),
		"tree":        plain(it.cmdTree),
		"du":          plain(it.cmdDu),
		"df":          plain(it.cmdDf),
		"stat":        plain(it.cmdStat),
		"chmod":       plain(it.cmdChmod),
		"date":        plain(it.cmdDate),
		"cpu":         plain(it.cmdCpu),
		"mem":         plain(it.cmdMem),
		"ps":          plain(it.cmdPs),
		"uptime":      plain(it.cmdUptime),
		"whoami":      plain(it.cmdWhoami),
		"hostname":    plain(it.cmdHostname),
		"md5sum":      plain(it.cmdMd5sum),
		"sha256sum":   plain(it.cmdSha256sum),
		"clear":       plain(it.cmdClear),
		"which":       plain(it.cmdWhich),
		"jq":          plain(it.cmdJq),
		"import-file": plain(it.cmdImportFile),
		"export-file": plain(it.cmdExportFile),
		"help":        plain(it.cmdHelp),
	}

	return it
}

// plain adapts a handler that never opens a capture session.
func plain(h func(ctx context.Context, args []string, cwd string) Result) handlerFunc {
	return func(ctx context.Context, args []string, cwd string) (Result, *captureStart) {
		return h(ctx, args, cwd), nil
	}
}

// Fs returns the filesystem the interpreter operates on.
func (it *Interpreter) Fs() afero.Fs {
	return it.fs
}

// Capturing reports whether a multi-line input session is open.
func (it *Interpreter) Capturing() bool {
	return it.session != nil
}

// Execute interprets a single command line against the given working
// directory. See ExecuteContext.
func (it *Interpreter) Execute(rawLine, cwd string) Result {
	return it.ExecuteContext(context.Background(), rawLine, cwd)
}

// ExecuteContext interprets a single command line. If a capture session is
// open the line is routed to it; otherwise the line is tokenized and the
// first token selects a handler. Any unexpected failure is converted into
// an "Error: ..." result; the interpreter never terminates the host.
func (it *Interpreter) ExecuteContext(ctx context.Context, rawLine, cwd string) (res Result) {
	if cwd == "" {
		cwd = DefaultWorkDir
		_ = it.fs.MkdirAll(cwd, 0o755)
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Stderr: fmt.Sprintf("Error: %v\n", r),
				Dir:    cwd,
				Code:   1,
			}
		}
	}()

	if it.session != nil {
		return it.feedCapture(rawLine, cwd)
	}

	line := strings.TrimSpace(rawLine)
	if line == "" {
		return Result{Dir: cwd}
	}

	tokens, err := tokenize(line)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("parse error: %v", err),
			Dir:    cwd,
			Code:   2,
		}
	}
	if len(tokens) == 0 {
		return Result{Dir: cwd}
	}

	verb, args := tokens[0], tokens[1:]
	if verb == "--help" || verb == "-h" {
		verb = "help"
	}

	handler, ok := it.verbs[verb]
	if !ok {
		return Result{
			Stderr: fmt.Sprintf("Command not found: %s\n", verb),
			Dir:    cwd,
			Code:   127,
		}
	}

	r, capture := handler(ctx, args, cwd)
	if capture != nil {
		it.session = &captureSession{
			kind:       capture.kind,
			path:       capture.path,
			appendMode: capture.appendMode,
			terminator: capture.terminator,
		}
		return Result{Stdout: continuationPrompt, Dir: cwd}
	}
	return r
}

// errorResult is the catch-all conversion for unexpected I/O failures:
// the generic "Error: ..." message with exit code 1.
func errorResult(cwd string, err error) Result {
	return Result{
		Stderr: fmt.Sprintf("Error: %v\n", err),
		Dir:    cwd,
		Code:   1,
	}
}
