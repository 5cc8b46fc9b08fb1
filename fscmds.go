package websh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// cmdPwd implements the pwd command.
func (it *Interpreter) cmdPwd(ctx context.Context, args []string, cwd string) Result {
	return Result{Stdout: cwd + "\n", Dir: cwd}
}

// cmdCd implements the cd command. With no argument it changes to the
// user's home directory.
func (it *Interpreter) cmdCd(ctx context.Context, args []string, cwd string) Result {
	var target, display string
	if len(args) == 0 {
		target = it.home
		display = target
	} else {
		display = args[0]
		target = ResolvePath(args[0], cwd)
	}

	info, err := it.fs.Stat(target)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("cd: %s: No such file or directory\n", display),
			Dir:    cwd,
			Code:   1,
		}
	}
	if !info.IsDir() {
		return Result{
			Stderr: fmt.Sprintf("cd: %s: Not a directory\n", display),
			Dir:    cwd,
			Code:   1,
		}
	}
	return Result{Dir: target}
}

// cmdLs implements the ls command. Recognized flags are the exact tokens
// -l, -a, -la and -al; the last non-flag argument selects the target.
func (it *Interpreter) cmdLs(ctx context.Context, args []string, cwd string) Result {
	target := cwd
	longFormat := false
	showAll := false

	for _, a := range args {
		switch a {
		case "-l":
			longFormat = true
		case "-a":
			showAll = true
		case "-la", "-al":
			longFormat = true
			showAll = true
		default:
			if !strings.HasPrefix(a, "-") {
				target = ResolvePath(a, cwd)
			}
		}
	}

	info, err := it.fs.Stat(target)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("ls: cannot access '%s': No such file or directory\n", target),
			Dir:    cwd,
			Code:   2,
		}
	}

	if !info.IsDir() {
		return Result{Stdout: filepath.Base(target) + "\n", Dir: cwd}
	}

	entries, err := afero.ReadDir(it.fs, target)
	if err != nil {
		return errorResult(cwd, err)
	}

	var names []os.FileInfo
	for _, e := range entries {
		if !showAll && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e)
	}

	if longFormat {
		var lines []string
		for _, e := range names {
			dtype := "-"
			if e.IsDir() {
				dtype = "d"
			}
			mtime := e.ModTime().Format("2006-01-02 15:04")
			lines = append(lines, fmt.Sprintf("%s  %10d  %s  %s", dtype, e.Size(), mtime, e.Name()))
		}
		out := strings.Join(lines, "\n")
		if len(lines) > 0 {
			out += "\n"
		}
		return Result{Stdout: out, Dir: cwd}
	}

	var plain []string
	for _, e := range names {
		plain = append(plain, e.Name())
	}
	return Result{Stdout: strings.Join(plain, "  ") + "\n", Dir: cwd}
}

// cmdMkdir implements the mkdir command. Parent directories are created;
// an existing target is an error.
func (it *Interpreter) cmdMkdir(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "mkdir: missing operand\n", Dir: cwd, Code: 2}
	}
	for _, a := range args {
		p := ResolvePath(a, cwd)
		if exists, _ := afero.Exists(it.fs, p); exists {
			return Result{
				Stderr: fmt.Sprintf("mkdir: cannot create directory '%s': File exists\n", a),
				Dir:    cwd,
				Code:   1,
			}
		}
		if err := it.fs.MkdirAll(p, 0o755); err != nil {
			return errorResult(cwd, err)
		}
	}
	return Result{Dir: cwd}
}

// cmdRmdir implements the rmdir command, removing only empty directories.
func (it *Interpreter) cmdRmdir(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "rmdir: missing operand\n", Dir: cwd, Code: 2}
	}
	for _, a := range args {
		p := ResolvePath(a, cwd)
		info, err := it.fs.Stat(p)
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("rmdir: failed to remove '%s': No such file or directory\n", a),
				Dir:    cwd,
				Code:   1,
			}
		}
		if !info.IsDir() {
			return Result{
				Stderr: fmt.Sprintf("rmdir: failed to remove '%s': Not a directory\n", a),
				Dir:    cwd,
				Code:   1,
			}
		}
		entries, err := afero.ReadDir(it.fs, p)
		if err != nil {
			return errorResult(cwd, err)
		}
		if len(entries) > 0 {
			return Result{
				Stderr: fmt.Sprintf("rmdir: failed to remove '%s': Directory not empty\n", a),
				Dir:    cwd,
				Code:   1,
			}
		}
		if err := it.fs.Remove(p); err != nil {
			return errorResult(cwd, err)
		}
	}
	return Result{Dir: cwd}
}

// cmdRm implements the rm command. Removing a non-empty directory requires
// one of the exact flag tokens -r, -rf or -fr.
func (it *Interpreter) cmdRm(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "rm: missing operand\n", Dir: cwd, Code: 2}
	}

	flags, paths := scanFlags(args, "-r", "-rf", "-fr")
	recursive := len(flags) > 0

	if len(paths) == 0 {
		return Result{Stderr: "rm: missing path\n", Dir: cwd, Code: 2}
	}

	for _, a := range paths {
		p := ResolvePath(a, cwd)
		info, err := it.fs.Stat(p)
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("rm: cannot remove '%s': No such file or directory\n", a),
				Dir:    cwd,
				Code:   1,
			}
		}
		if info.IsDir() && !recursive {
			return Result{
				Stderr: fmt.Sprintf("rm: cannot remove '%s': Is a directory\n", a),
				Dir:    cwd,
				Code:   1,
			}
		}
		if info.IsDir() {
			err = it.fs.RemoveAll(p)
		} else {
			err = it.fs.Remove(p)
		}
		if err != nil {
			return errorResult(cwd, err)
		}
	}
	return Result{Dir: cwd}
}

// cmdTouch implements the touch command. Missing parent directories are
// created; an existing file gets its modification time updated.
func (it *Interpreter) cmdTouch(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "touch: missing file operand\n", Dir: cwd, Code: 2}
	}
	for _, a := range args {
		p := ResolvePath(a, cwd)
		if dir := filepath.Dir(p); dir != "" {
			if err := it.fs.MkdirAll(dir, 0o755); err != nil {
				return errorResult(cwd, err)
			}
		}
		info, err := it.fs.Stat(p)
		if err == nil && info.IsDir() {
			return errorResult(cwd, fmt.Errorf("is a directory: '%s'", p))
		}
		if err == nil {
			now := time.Now()
			if err := it.fs.Chtimes(p, now, now); err != nil {
				return errorResult(cwd, err)
			}
		} else {
			f, err := it.fs.Create(p)
			if err != nil {
				return errorResult(cwd, err)
			}
			f.Close()
		}
	}
	return Result{Dir: cwd}
}

// cmdMv implements the mv command. With multiple sources the destination
// must be an existing directory.
func (it *Interpreter) cmdMv(ctx context.Context, args []string, cwd string) Result {
	if len(args) < 2 {
		return Result{Stderr: "mv: missing file operands\n", Dir: cwd, Code: 2}
	}

	srcs := make([]string, 0, len(args)-1)
	for _, a := range args[:len(args)-1] {
		srcs = append(srcs, ResolvePath(a, cwd))
	}
	dest := ResolvePath(args[len(args)-1], cwd)

	destIsDir, _ := afero.IsDir(it.fs, dest)
	if len(srcs) > 1 && !destIsDir {
		return Result{Stderr: "mv: target is not a directory\n", Dir: cwd, Code: 1}
	}

	for _, s := range srcs {
		if exists, _ := afero.Exists(it.fs, s); !exists {
			return Result{
				Stderr: fmt.Sprintf("mv: cannot stat '%s': No such file or directory\n", s),
				Dir:    cwd,
				Code:   1,
			}
		}
		target := dest
		if destIsDir {
			target = filepath.Join(dest, filepath.Base(s))
		}
		if err := it.fs.Rename(s, target); err != nil {
			return Result{
				Stderr: fmt.Sprintf("mv error: %v\n", err),
				Dir:    cwd,
				Code:   1,
			}
		}
	}
	return Result{Dir: cwd}
}

// cmdCp implements the cp command. Copying a directory requires the exact
// flag token -r.
func (it *Interpreter) cmdCp(ctx context.Context, args []string, cwd string) Result {
	if len(args) < 2 {
		return Result{Stderr: "cp: missing file operands\n", Dir: cwd, Code: 2}
	}

	flags, files := scanFlags(args, "-r")
	recursive := flags["-r"]

	if len(files) < 2 {
		return Result{Stderr: "cp: missing destination file operand after source\n", Dir: cwd, Code: 2}
	}

	srcs := make([]string, 0, len(files)-1)
	for _, a := range files[:len(files)-1] {
		srcs = append(srcs, ResolvePath(a, cwd))
	}
	dest := ResolvePath(files[len(files)-1], cwd)

	destIsDir, _ := afero.IsDir(it.fs, dest)
	if len(srcs) > 1 && !destIsDir {
		return Result{Stderr: "cp: target is not a directory\n", Dir: cwd, Code: 1}
	}

	for _, s := range srcs {
		info, err := it.fs.Stat(s)
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("cp: cannot stat '%s': No such file or directory\n", s),
				Dir:    cwd,
				Code:   1,
			}
		}
		if info.IsDir() {
			if !recursive {
				return Result{
					Stderr: fmt.Sprintf("cp: -r not specified; omitting directory '%s'\n", s),
					Dir:    cwd,
					Code:   1,
				}
			}
			err = it.copyDir(s, filepath.Join(dest, filepath.Base(s)))
		} else if destIsDir {
			err = it.copyFile(s, filepath.Join(dest, filepath.Base(s)))
		} else {
			err = it.copyFile(s, dest)
		}
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("cp error: %v\n", err),
				Dir:    cwd,
				Code:   1,
			}
		}
	}
	return Result{Dir: cwd}
}

// copyFile copies a single file, preserving the source modification time.
func (it *Interpreter) copyFile(src, dest string) error {
	srcInfo, err := it.fs.Stat(src)
	if err != nil {
		return err
	}

	srcFile, err := it.fs.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := it.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	_, err = io.Copy(destFile, srcFile)
	if cerr := destFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	return it.fs.Chtimes(dest, srcInfo.ModTime(), srcInfo.ModTime())
}

// copyDir copies a directory recursively.
func (it *Interpreter) copyDir(src, dest string) error {
	srcInfo, err := it.fs.Stat(src)
	if err != nil {
		return err
	}
	if err := it.fs.MkdirAll(dest, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := afero.ReadDir(it.fs, src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = it.copyDir(srcPath, destPath)
		} else {
			err = it.copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// cmdEcho implements the echo command, with > and >> redirection tokens
// recognized anywhere in the arguments.
func (it *Interpreter) cmdEcho(ctx context.Context, args []string, cwd string) Result {
	if idx := indexOf(args, ">"); idx >= 0 {
		return it.echoRedirect(args, idx, false, cwd)
	}
	if idx := indexOf(args, ">>"); idx >= 0 {
		return it.echoRedirect(args, idx, true, cwd)
	}
	return Result{Stdout: strings.Join(args, " ") + "\n", Dir: cwd}
}

func (it *Interpreter) echoRedirect(args []string, idx int, appendMode bool, cwd string) Result {
	if idx+1 >= len(args) {
		return Result{Stderr: "echo: redirection error: missing target file\n", Dir: cwd, Code: 1}
	}
	text := strings.Join(args[:idx], " ")
	path := ResolvePath(args[idx+1], cwd)

	flag := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	f, err := it.fs.OpenFile(path, flag, 0o644)
	if err == nil {
		_, err = io.WriteString(f, text+"\n")
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("echo: redirection error: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}
	return Result{Dir: cwd}
}

// cmdCat implements the cat command. The plain form concatenates files;
// redirect-only forms open a raw-input session; a << form opens a heredoc
// session; redirect forms with source files read and write immediately.
func (it *Interpreter) cmdCat(ctx context.Context, args []string, cwd string) (Result, *captureStart) {
	if hd := indexOf(args, "<<"); hd >= 0 {
		appendMode := true
		redirect := indexOf(args, ">>")
		if redirect < 0 {
			if r := indexOf(args, ">"); r >= 0 {
				redirect = r
				appendMode = false
			}
		}
		if redirect < 0 || hd < redirect {
			return Result{
				Stderr: "cat: invalid syntax, use: cat [>>|>] file << EOF\n",
				Dir:    cwd,
				Code:   2,
			}, nil
		}
		if redirect+1 >= len(args) {
			return Result{Stderr: "cat: heredoc error: missing target file\n", Dir: cwd, Code: 1}, nil
		}
		terminator := "EOF"
		if hd+1 < len(args) {
			terminator = args[hd+1]
		}
		return Result{}, &captureStart{
			kind:       captureHeredoc,
			path:       ResolvePath(args[redirect+1], cwd),
			appendMode: appendMode,
			terminator: terminator,
		}
	}

	for _, redir := range []struct {
		tok        string
		appendMode bool
		errWord    string
	}{
		{">>", true, "append"},
		{">", false, "write"},
	} {
		idx := indexOf(args, redir.tok)
		if idx < 0 {
			continue
		}
		if idx+1 >= len(args) {
			return Result{
				Stderr: fmt.Sprintf("cat: %s error: missing target file\n", redir.errWord),
				Dir:    cwd,
				Code:   1,
			}, nil
		}
		path := ResolvePath(args[idx+1], cwd)
		if idx == 0 {
			// Redirect-only: collect input lines until a blank line.
			return Result{}, &captureStart{
				kind:       captureRawInput,
				path:       path,
				appendMode: redir.appendMode,
			}
		}

		// Sources before the redirect: read them and write the target now.
		var parts []string
		for _, a := range args[:idx] {
			content, errRes := it.readTextFile("cat", a, cwd)
			if errRes != nil {
				return *errRes, nil
			}
			parts = append(parts, content)
		}
		flag := os.O_WRONLY | os.O_CREATE
		if redir.appendMode {
			flag |= os.O_APPEND
		} else {
			flag |= os.O_TRUNC
		}
		f, err := it.fs.OpenFile(path, flag, 0o644)
		if err == nil {
			_, err = io.WriteString(f, strings.Join(parts, "\n"))
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return Result{
				Stderr: fmt.Sprintf("cat: %s error: %v\n", redir.errWord, err),
				Dir:    cwd,
				Code:   1,
			}, nil
		}
		return Result{Dir: cwd}, nil
	}

	if len(args) == 0 {
		return Result{Stderr: "cat: missing file operand\n", Dir: cwd, Code: 2}, nil
	}

	var parts []string
	for _, a := range args {
		content, errRes := it.readTextFile("cat", a, cwd)
		if errRes != nil {
			return *errRes, nil
		}
		parts = append(parts, content)
	}
	return Result{Stdout: strings.Join(parts, "\n"), Dir: cwd}, nil
}

// readTextFile resolves and reads one file operand, producing the verb's
// conventional per-file errors for missing paths and directories.
func (it *Interpreter) readTextFile(verb, arg, cwd string) (string, *Result) {
	p := ResolvePath(arg, cwd)
	info, err := it.fs.Stat(p)
	if err != nil {
		return "", &Result{
			Stderr: fmt.Sprintf("%s: %s: No such file or directory\n", verb, arg),
			Dir:    cwd,
			Code:   1,
		}
	}
	if info.IsDir() {
		return "", &Result{
			Stderr: fmt.Sprintf("%s: %s: Is a directory\n", verb, arg),
			Dir:    cwd,
			Code:   1,
		}
	}
	data, err := afero.ReadFile(it.fs, p)
	if err != nil {
		res := errorResult(cwd, err)
		return "", &res
	}
	return string(data), nil
}
