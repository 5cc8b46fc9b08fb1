package websh

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/spf13/afero"
)

// cmdStat implements the stat command.
func (it *Interpreter) cmdStat(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "stat: missing file operand\n", Dir: cwd, Code: 2}
	}

	arg := args[0]
	p := ResolvePath(arg, cwd)
	info, err := it.fs.Stat(p)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("stat: %s: No such file or directory\n", arg),
			Dir:    cwd,
			Code:   1,
		}
	}

	// afero exposes only the modification time; access and change report
	// the same instant.
	mtime := info.ModTime().Format("2006-01-02 15:04:05")
	var sb strings.Builder
	fmt.Fprintf(&sb, "  File: %s\n", arg)
	fmt.Fprintf(&sb, "  Size: %d\n", info.Size())
	fmt.Fprintf(&sb, "  Mode: %s\n", octalMode(info))
	fmt.Fprintf(&sb, "Access: %s\n", mtime)
	fmt.Fprintf(&sb, "Modify: %s\n", mtime)
	fmt.Fprintf(&sb, "Change: %s\n", mtime)
	return Result{Stdout: sb.String(), Dir: cwd}
}

// octalMode renders a FileInfo mode the way stat(2) reports st_mode:
// permission bits plus the file type bits, in octal.
func octalMode(info os.FileInfo) string {
	m := info.Mode()
	v := uint32(m.Perm())
	switch {
	case m.IsDir():
		v |= 0o40000
	case m&os.ModeSymlink != 0:
		v |= 0o120000
	default:
		v |= 0o100000
	}
	return fmt.Sprintf("0o%o", v)
}

// cmdChmod implements the chmod command with an octal mode string.
func (it *Interpreter) cmdChmod(ctx context.Context, args []string, cwd string) Result {
	if len(args) < 2 {
		return Result{Stderr: "chmod: missing operands\n", Dir: cwd, Code: 2}
	}

	modeStr, arg := args[0], args[1]
	mode, err := strconv.ParseUint(modeStr, 8, 32)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("chmod: invalid mode: '%s'\n", modeStr),
			Dir:    cwd,
			Code:   1,
		}
	}

	p := ResolvePath(arg, cwd)
	if exists, _ := afero.Exists(it.fs, p); !exists {
		return Result{
			Stderr: fmt.Sprintf("chmod: %s: No such file or directory\n", arg),
			Dir:    cwd,
			Code:   1,
		}
	}

	if err := it.fs.Chmod(p, os.FileMode(mode)); err != nil {
		return Result{
			Stderr: fmt.Sprintf("chmod: error: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}
	return Result{Dir: cwd}
}

// cmdDate implements the date command.
func (it *Interpreter) cmdDate(ctx context.Context, args []string, cwd string) Result {
	return Result{Stdout: time.Now().Format("Mon Jan 02 15:04:05 2006") + "\n", Dir: cwd}
}

// cmdWhoami implements the whoami command.
func (it *Interpreter) cmdWhoami(ctx context.Context, args []string, cwd string) Result {
	u, err := user.Current()
	if err != nil {
		return errorResult(cwd, err)
	}
	return Result{Stdout: u.Username + "\n", Dir: cwd}
}

// cmdHostname implements the hostname command.
func (it *Interpreter) cmdHostname(ctx context.Context, args []string, cwd string) Result {
	name, err := os.Hostname()
	if err != nil {
		return errorResult(cwd, err)
	}
	return Result{Stdout: name + "\n", Dir: cwd}
}

// cmdMd5sum implements the md5sum command.
func (it *Interpreter) cmdMd5sum(ctx context.Context, args []string, cwd string) Result {
	return it.checksum("md5sum", md5.New, args, cwd)
}

// cmdSha256sum implements the sha256sum command.
func (it *Interpreter) cmdSha256sum(ctx context.Context, args []string, cwd string) Result {
	return it.checksum("sha256sum", sha256.New, args, cwd)
}

// checksum streams each file through the hash in fixed-size chunks and
// prints "HEXDIGEST  filename" per file.
func (it *Interpreter) checksum(verb string, newHash func() hash.Hash, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{
			Stderr: fmt.Sprintf("%s: missing file operand\n", verb),
			Dir:    cwd,
			Code:   2,
		}
	}

	var rows []string
	for _, arg := range args {
		p := ResolvePath(arg, cwd)
		info, err := it.fs.Stat(p)
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("%s: %s: No such file or directory\n", verb, arg),
				Dir:    cwd,
				Code:   1,
			}
		}
		if info.IsDir() {
			return Result{
				Stderr: fmt.Sprintf("%s: %s: Is a directory\n", verb, arg),
				Dir:    cwd,
				Code:   1,
			}
		}

		f, err := it.fs.Open(p)
		if err != nil {
			return errorResult(cwd, err)
		}
		h := newHash()
		buf := make([]byte, 4096)
		_, err = io.CopyBuffer(h, f, buf)
		f.Close()
		if err != nil {
			return errorResult(cwd, err)
		}
		rows = append(rows, fmt.Sprintf("%x  %s", h.Sum(nil), arg))
	}
	return Result{Stdout: strings.Join(rows, "\n") + "\n", Dir: cwd}
}

// cmdClear emits a fixed block of blank lines as a terminal-clear
// simulation.
func (it *Interpreter) cmdClear(ctx context.Context, args []string, cwd string) Result {
	return Result{Stdout: strings.Repeat("\n", 50), Dir: cwd}
}

// cmdWhich reports a synthetic path for any name in the dispatch table.
func (it *Interpreter) cmdWhich(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "which: missing command\n", Dir: cwd, Code: 2}
	}

	name := args[0]
	if _, ok := it.verbs[name]; ok {
		return Result{Stdout: fmt.Sprintf("/usr/bin/%s\n", name), Dir: cwd}
	}
	return Result{
		Stderr: fmt.Sprintf("which: no %s in built-in commands\n", name),
		Dir:    cwd,
		Code:   1,
	}
}

// cmdJq implements the jq command: a gojq filter over a JSON file, or over
// null input when no file is given.
func (it *Interpreter) cmdJq(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "jq: missing filter expression\n", Dir: cwd, Code: 2}
	}

	filter := args[0]
	var input interface{}
	if len(args) > 1 {
		content, errRes := it.readTextFile("jq", args[1], cwd)
		if errRes != nil {
			return *errRes
		}
		if err := json.Unmarshal([]byte(content), &input); err != nil {
			return Result{
				Stderr: fmt.Sprintf("jq: parse error: %v\n", err),
				Dir:    cwd,
				Code:   1,
			}
		}
	}

	query, err := gojq.Parse(filter)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("jq: filter parse error: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("jq: compile error: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}

	var sb strings.Builder
	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return Result{
				Stderr: fmt.Sprintf("jq: execution error: %v\n", err),
				Dir:    cwd,
				Code:   1,
			}
		}
		out, err := json.Marshal(v)
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("jq: marshal error: %v\n", err),
				Dir:    cwd,
				Code:   1,
			}
		}
		sb.Write(out)
		sb.WriteByte('\n')
	}
	return Result{Stdout: sb.String(), Dir: cwd}
}
