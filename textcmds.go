package websh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// cmdHead implements the head command: first n lines, default 10.
func (it *Interpreter) cmdHead(ctx context.Context, args []string, cwd string) Result {
	n, operands, ok := intOption(args, "-n", 10)
	if !ok {
		return Result{Stderr: "head: invalid number of lines\n", Dir: cwd, Code: 1}
	}

	var file string
	for _, a := range operands {
		file = a
	}
	if file == "" {
		return Result{Stderr: "head: missing file operand\n", Dir: cwd, Code: 2}
	}

	content, errRes := it.readTextFile("head", file, cwd)
	if errRes != nil {
		return *errRes
	}

	var sb strings.Builder
	rest := content
	for i := 0; i < n && rest != ""; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:idx+1])
		rest = rest[idx+1:]
	}
	return Result{Stdout: sb.String(), Dir: cwd}
}

// cmdTail implements the tail command: last n lines, default 10.
func (it *Interpreter) cmdTail(ctx context.Context, args []string, cwd string) Result {
	n, operands, ok := intOption(args, "-n", 10)
	if !ok {
		return Result{Stderr: "tail: invalid number of lines\n", Dir: cwd, Code: 1}
	}

	var file string
	for _, a := range operands {
		file = a
	}
	if file == "" {
		return Result{Stderr: "tail: missing file operand\n", Dir: cwd, Code: 2}
	}

	content, errRes := it.readTextFile("tail", file, cwd)
	if errRes != nil {
		return *errRes
	}

	lines := splitKeepEnds(content)
	start := 0
	if n > 0 {
		if len(lines) > n {
			start = len(lines) - n
		}
	} else {
		start = -n
		if start > len(lines) {
			start = len(lines)
		}
	}
	return Result{Stdout: strings.Join(lines[start:], ""), Dir: cwd}
}

// splitKeepEnds splits content into lines, each retaining its trailing
// newline. A final fragment without a newline is kept as-is.
func splitKeepEnds(content string) []string {
	var lines []string
	for content != "" {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:idx+1])
		content = content[idx+1:]
	}
	return lines
}

// cmdWc implements the wc command: line, word and character counts.
func (it *Interpreter) cmdWc(ctx context.Context, args []string, cwd string) Result {
	if len(args) == 0 {
		return Result{Stderr: "wc: missing file operand\n", Dir: cwd, Code: 2}
	}

	var rows []string
	for _, a := range args {
		content, errRes := it.readTextFile("wc", a, cwd)
		if errRes != nil {
			return *errRes
		}
		lines := strings.Count(content, "\n")
		words := len(strings.Fields(content))
		chars := utf8.RuneCountInString(content)
		rows = append(rows, fmt.Sprintf("%7d %7d %7d %s", lines, words, chars, a))
	}
	return Result{Stdout: strings.Join(rows, "\n") + "\n", Dir: cwd}
}

// cmdGrep implements the grep command: a literal substring search, not a
// regular expression match. Matches print as lineNumber:lineContent; no
// matches is exit code 1 with empty output.
func (it *Interpreter) cmdGrep(ctx context.Context, args []string, cwd string) Result {
	if len(args) < 2 {
		return Result{Stderr: "grep: missing pattern or file\n", Dir: cwd, Code: 2}
	}
	pattern, file := args[0], args[1]

	content, errRes := it.readTextFile("grep", file, cwd)
	if errRes != nil {
		return *errRes
	}

	var matches []string
	for i, line := range splitKeepEnds(content) {
		if strings.Contains(line, pattern) {
			trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
			matches = append(matches, fmt.Sprintf("%d:%s", i+1, trimmed))
		}
	}

	if len(matches) == 0 {
		return Result{Dir: cwd, Code: 1}
	}
	return Result{Stdout: strings.Join(matches, "\n") + "\n", Dir: cwd}
}

// cmdFind implements the find command. -name is a literal substring match
// against entry names; within each directory files are listed before
// subdirectories.
func (it *Interpreter) cmdFind(ctx context.Context, args []string, cwd string) Result {
	start := cwd
	pattern := ""

	i := 0
	for i < len(args) {
		switch {
		case args[i] == "-name" && i+1 < len(args):
			pattern = args[i+1]
			i += 2
		case !strings.HasPrefix(args[i], "-"):
			start = ResolvePath(args[i], cwd)
			i++
		default:
			i++
		}
	}

	if exists, _ := afero.Exists(it.fs, start); !exists {
		return Result{
			Stderr: fmt.Sprintf("find: '%s': No such file or directory\n", start),
			Dir:    cwd,
			Code:   1,
		}
	}

	var results []string
	it.findWalk(start, pattern, &results)

	out := strings.Join(results, "\n")
	if len(results) > 0 {
		out += "\n"
	}
	return Result{Stdout: out, Dir: cwd}
}

// findWalk lists matching entries of dir (files first, then directories),
// then descends into each subdirectory.
func (it *Interpreter) findWalk(dir, pattern string, results *[]string) {
	entries, err := afero.ReadDir(it.fs, dir)
	if err != nil {
		return
	}

	var subdirs []string
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		} else {
			names = append(names, e.Name())
		}
	}
	names = append(names, subdirs...)

	for _, name := range names {
		if pattern == "" || strings.Contains(name, pattern) {
			*results = append(*results, filepath.Join(dir, name))
		}
	}
	for _, sub := range subdirs {
		it.findWalk(filepath.Join(dir, sub), pattern, results)
	}
}

// cmdTree implements the tree command: a box-drawing hierarchy with sorted
// entries, following directories but not symlinks.
func (it *Interpreter) cmdTree(ctx context.Context, args []string, cwd string) Result {
	start := cwd
	display := cwd
	if len(args) > 0 {
		display = args[0]
		start = ResolvePath(args[0], cwd)
	}

	info, err := it.fs.Stat(start)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("tree: %s: No such file or directory\n", display),
			Dir:    cwd,
			Code:   1,
		}
	}
	if !info.IsDir() {
		return errorResult(cwd, fmt.Errorf("not a directory: '%s'", start))
	}

	lines := []string{start}
	it.treeWalk(start, "", &lines)
	return Result{Stdout: strings.Join(lines, "\n") + "\n", Dir: cwd}
}

func (it *Interpreter) treeWalk(dir, prefix string, lines *[]string) {
	entries, err := afero.ReadDir(it.fs, dir)
	if err != nil {
		*lines = append(*lines, prefix+"[Permission Denied]")
		return
	}

	for i, e := range entries {
		last := i == len(entries)-1
		connector := "├── "
		extension := "│   "
		if last {
			connector = "└── "
			extension = "    "
		}
		*lines = append(*lines, prefix+connector+e.Name())

		if e.IsDir() && !it.isSymlink(filepath.Join(dir, e.Name())) {
			it.treeWalk(filepath.Join(dir, e.Name()), prefix+extension, lines)
		}
	}
}

// isSymlink reports whether the path is a symbolic link, when the backing
// filesystem can tell.
func (it *Interpreter) isSymlink(path string) bool {
	lfs, ok := it.fs.(afero.Lstater)
	if !ok {
		return false
	}
	info, _, err := lfs.LstatIfPossible(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// cmdDu implements the du command: the recursive byte total of a
// directory, or a single file's size. Stat failures on individual entries
// are skipped silently.
func (it *Interpreter) cmdDu(ctx context.Context, args []string, cwd string) Result {
	target := cwd
	display := cwd
	if len(args) > 0 {
		display = args[0]
		target = ResolvePath(args[0], cwd)
	}

	info, err := it.fs.Stat(target)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("du: %s: No such file or directory\n", display),
			Dir:    cwd,
			Code:   1,
		}
	}

	if !info.IsDir() {
		return Result{Stdout: fmt.Sprintf("%d\t%s\n", info.Size(), target), Dir: cwd}
	}

	total := it.duWalk(target)
	return Result{Stdout: fmt.Sprintf("%d\t%s\n", total, target), Dir: cwd}
}

func (it *Interpreter) duWalk(dir string) int64 {
	entries, err := afero.ReadDir(it.fs, dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			total += it.duWalk(filepath.Join(dir, e.Name()))
		} else {
			total += e.Size()
		}
	}
	return total
}
