package websh

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestCd(t *testing.T) {
	it := newTestInterpreter(t, WithHome("/home/user"))
	it.Fs().MkdirAll("/home/user", 0o755)
	it.Fs().MkdirAll("/tmp/work", 0o755)
	afero.WriteFile(it.Fs(), "/tmp/plain.txt", []byte("x"), 0o644)

	tests := []struct {
		name       string
		line       string
		wantDir    string
		wantStderr string
		wantCode   int
	}{
		{"into subdir", "cd work", "/tmp/work", "", 0},
		{"absolute", "cd /home/user", "/home/user", "", 0},
		{"dotdot", "cd ..", "/", "", 0},
		{"no argument goes home", "cd", "/home/user", "", 0},
		{"missing target", "cd nope", "/tmp", "cd: nope: No such file or directory\n", 1},
		{"file target", "cd plain.txt", "/tmp", "cd: plain.txt: Not a directory\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := it.Execute(tt.line, "/tmp")
			if res.Dir != tt.wantDir {
				t.Errorf("dir = %q, want %q", res.Dir, tt.wantDir)
			}
			if res.Stderr != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", res.Stderr, tt.wantStderr)
			}
			if res.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", res.Code, tt.wantCode)
			}
		})
	}
}

func TestMkdirTwice(t *testing.T) {
	it := newTestInterpreter(t)

	res := it.Execute("mkdir demo", "/tmp")
	if res.Code != 0 {
		t.Fatalf("first mkdir failed: %+v", res)
	}

	res = it.Execute("mkdir demo", "/tmp")
	if res.Code != 1 {
		t.Errorf("second mkdir code = %d, want 1", res.Code)
	}
	if res.Stderr != "mkdir: cannot create directory 'demo': File exists\n" {
		t.Errorf("second mkdir stderr = %q", res.Stderr)
	}
}

func TestMkdirCreatesParents(t *testing.T) {
	it := newTestInterpreter(t)
	res := it.Execute("mkdir a/b/c", "/tmp")
	if res.Code != 0 {
		t.Fatalf("mkdir failed: %+v", res)
	}
	if exists, _ := afero.DirExists(it.Fs(), "/tmp/a/b/c"); !exists {
		t.Error("nested directory was not created")
	}
}

func TestLs(t *testing.T) {
	it := newTestInterpreter(t)
	fs := it.Fs()
	fs.MkdirAll("/tmp/dir", 0o755)
	afero.WriteFile(fs, "/tmp/b.txt", []byte("hello"), 0o644)
	afero.WriteFile(fs, "/tmp/.hidden", []byte("h"), 0o644)

	res := it.Execute("ls", "/tmp")
	if res.Stdout != "b.txt  dir\n" {
		t.Errorf("ls stdout = %q", res.Stdout)
	}

	res = it.Execute("ls -a", "/tmp")
	if res.Stdout != ".hidden  b.txt  dir\n" {
		t.Errorf("ls -a stdout = %q", res.Stdout)
	}

	res = it.Execute("ls -l", "/tmp")
	lines := strings.Split(strings.TrimSuffix(res.Stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("ls -l lines = %d, want 2: %q", len(lines), res.Stdout)
	}
	if !strings.HasPrefix(lines[0], "-  ") || !strings.HasSuffix(lines[0], "  b.txt") {
		t.Errorf("ls -l file row = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "d  ") || !strings.HasSuffix(lines[1], "  dir") {
		t.Errorf("ls -l dir row = %q", lines[1])
	}

	res = it.Execute("ls b.txt", "/tmp")
	if res.Stdout != "b.txt\n" {
		t.Errorf("ls file stdout = %q", res.Stdout)
	}

	res = it.Execute("ls missing", "/tmp")
	if res.Code != 2 || res.Stderr != "ls: cannot access '/tmp/missing': No such file or directory\n" {
		t.Errorf("ls missing = %+v", res)
	}
}

func TestLsEmptyDir(t *testing.T) {
	it := newTestInterpreter(t)
	it.Fs().MkdirAll("/tmp/empty", 0o755)
	res := it.Execute("ls empty", "/tmp")
	if res.Stdout != "\n" || res.Code != 0 {
		t.Errorf("ls empty = %+v", res)
	}
}

func TestRm(t *testing.T) {
	it := newTestInterpreter(t)
	fs := it.Fs()
	afero.WriteFile(fs, "/tmp/f.txt", []byte("x"), 0o644)
	fs.MkdirAll("/tmp/d", 0o755)
	afero.WriteFile(fs, "/tmp/d/inner.txt", []byte("y"), 0o644)

	res := it.Execute("rm", "/tmp")
	if res.Code != 2 || res.Stderr != "rm: missing operand\n" {
		t.Errorf("rm no args = %+v", res)
	}

	res = it.Execute("rm -r", "/tmp")
	if res.Code != 2 || res.Stderr != "rm: missing path\n" {
		t.Errorf("rm -r no path = %+v", res)
	}

	res = it.Execute("rm d", "/tmp")
	if res.Code != 1 || res.Stderr != "rm: cannot remove 'd': Is a directory\n" {
		t.Errorf("rm dir without -r = %+v", res)
	}
	if exists, _ := afero.Exists(fs, "/tmp/d/inner.txt"); !exists {
		t.Error("failed rm disturbed the directory contents")
	}

	res = it.Execute("rm -r d", "/tmp")
	if res.Code != 0 {
		t.Fatalf("rm -r failed: %+v", res)
	}
	if exists, _ := afero.Exists(fs, "/tmp/d"); exists {
		t.Error("directory survived rm -r")
	}

	res = it.Execute("rm f.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("rm file failed: %+v", res)
	}

	res = it.Execute("rm f.txt", "/tmp")
	if res.Code != 1 || res.Stderr != "rm: cannot remove 'f.txt': No such file or directory\n" {
		t.Errorf("rm missing = %+v", res)
	}
}

func TestRmdir(t *testing.T) {
	it := newTestInterpreter(t)
	fs := it.Fs()
	fs.MkdirAll("/tmp/empty", 0o755)
	fs.MkdirAll("/tmp/full", 0o755)
	afero.WriteFile(fs, "/tmp/full/x", []byte("x"), 0o644)
	afero.WriteFile(fs, "/tmp/file", []byte("x"), 0o644)

	res := it.Execute("rmdir full", "/tmp")
	if res.Code != 1 || res.Stderr != "rmdir: failed to remove 'full': Directory not empty\n" {
		t.Errorf("rmdir non-empty = %+v", res)
	}

	res = it.Execute("rmdir file", "/tmp")
	if res.Code != 1 || res.Stderr != "rmdir: failed to remove 'file': Not a directory\n" {
		t.Errorf("rmdir file = %+v", res)
	}

	res = it.Execute("rmdir empty", "/tmp")
	if res.Code != 0 {
		t.Fatalf("rmdir empty failed: %+v", res)
	}
	if exists, _ := afero.Exists(fs, "/tmp/empty"); exists {
		t.Error("empty directory survived rmdir")
	}
}

func TestTouch(t *testing.T) {
	it := newTestInterpreter(t)
	res := it.Execute("touch notes/a.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("touch failed: %+v", res)
	}
	if exists, _ := afero.Exists(it.Fs(), "/tmp/notes/a.txt"); !exists {
		t.Error("touch did not create the file")
	}

	// Touching again must not truncate.
	afero.WriteFile(it.Fs(), "/tmp/notes/a.txt", []byte("keep"), 0o644)
	res = it.Execute("touch notes/a.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("second touch failed: %+v", res)
	}
	data, _ := afero.ReadFile(it.Fs(), "/tmp/notes/a.txt")
	if string(data) != "keep" {
		t.Errorf("touch truncated the file: %q", data)
	}

	// A directory target cannot be opened for writing.
	res = it.Execute("touch notes", "/tmp")
	if res.Code != 1 || res.Stderr != "Error: is a directory: '/tmp/notes'\n" {
		t.Errorf("touch on directory = %+v", res)
	}
}

func TestMv(t *testing.T) {
	it := newTestInterpreter(t)
	fs := it.Fs()
	afero.WriteFile(fs, "/tmp/a.txt", []byte("content"), 0o644)
	fs.MkdirAll("/tmp/dest", 0o755)

	res := it.Execute("mv a.txt b.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("mv rename failed: %+v", res)
	}
	data, _ := afero.ReadFile(fs, "/tmp/b.txt")
	if string(data) != "content" {
		t.Errorf("renamed content = %q", data)
	}

	res = it.Execute("mv b.txt dest", "/tmp")
	if res.Code != 0 {
		t.Fatalf("mv into dir failed: %+v", res)
	}
	if exists, _ := afero.Exists(fs, "/tmp/dest/b.txt"); !exists {
		t.Error("mv did not place the file in the directory")
	}

	// The missing-source message reports the resolved path.
	res = it.Execute("mv nope.txt dest", "/tmp")
	if res.Code != 1 || res.Stderr != "mv: cannot stat '/tmp/nope.txt': No such file or directory\n" {
		t.Errorf("mv missing = %+v", res)
	}

	afero.WriteFile(fs, "/tmp/x1", []byte("1"), 0o644)
	afero.WriteFile(fs, "/tmp/x2", []byte("2"), 0o644)
	res = it.Execute("mv x1 x2 b.txt", "/tmp")
	if res.Code != 1 || res.Stderr != "mv: target is not a directory\n" {
		t.Errorf("mv multi to file = %+v", res)
	}
}

func TestCp(t *testing.T) {
	it := newTestInterpreter(t)
	fs := it.Fs()
	afero.WriteFile(fs, "/tmp/a.txt", []byte("alpha"), 0o644)
	fs.MkdirAll("/tmp/src/sub", 0o755)
	afero.WriteFile(fs, "/tmp/src/f1", []byte("one"), 0o644)
	afero.WriteFile(fs, "/tmp/src/sub/f2", []byte("two"), 0o644)

	res := it.Execute("cp a.txt copy.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("cp file failed: %+v", res)
	}
	data, _ := afero.ReadFile(fs, "/tmp/copy.txt")
	if string(data) != "alpha" {
		t.Errorf("copied content = %q", data)
	}

	res = it.Execute("cp src dup", "/tmp")
	if res.Code != 1 || res.Stderr != "cp: -r not specified; omitting directory '/tmp/src'\n" {
		t.Errorf("cp dir without -r = %+v", res)
	}

	res = it.Execute("cp -r src dup", "/tmp")
	if res.Code != 0 {
		t.Fatalf("cp -r failed: %+v", res)
	}
	// Directory copies always land under dest/basename.
	data, _ = afero.ReadFile(fs, "/tmp/dup/src/sub/f2")
	if string(data) != "two" {
		t.Errorf("recursive copy content = %q", data)
	}

	res = it.Execute("cp a.txt", "/tmp")
	if res.Code != 2 || res.Stderr != "cp: missing destination file operand after source\n" {
		t.Errorf("cp one operand = %+v", res)
	}

	res = it.Execute("cp nope.txt out", "/tmp")
	if res.Code != 1 || res.Stderr != "cp: cannot stat '/tmp/nope.txt': No such file or directory\n" {
		t.Errorf("cp missing = %+v", res)
	}
}

func TestEchoAndRedirect(t *testing.T) {
	it := newTestInterpreter(t)

	res := it.Execute("echo hello world", "/tmp")
	if res.Stdout != "hello world\n" || res.Code != 0 {
		t.Errorf("echo = %+v", res)
	}

	res = it.Execute("echo first > out.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("echo > failed: %+v", res)
	}
	res = it.Execute("echo second >> out.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("echo >> failed: %+v", res)
	}
	res = it.Execute("cat out.txt", "/tmp")
	if res.Stdout != "first\nsecond\n" {
		t.Errorf("cat after redirects = %q", res.Stdout)
	}

	res = it.Execute("echo overwrite > out.txt", "/tmp")
	if res.Code != 0 {
		t.Fatalf("echo truncate failed: %+v", res)
	}
	res = it.Execute("cat out.txt", "/tmp")
	if res.Stdout != "overwrite\n" {
		t.Errorf("cat after truncate = %q", res.Stdout)
	}

	// Quoted text round-trips through a redirect unsplit.
	res = it.Execute(`echo "a b" > q.txt`, "/tmp")
	if res.Code != 0 {
		t.Fatalf("echo quoted failed: %+v", res)
	}
	res = it.Execute("cat q.txt", "/tmp")
	if res.Stdout != "a b\n" {
		t.Errorf("cat quoted round-trip = %q", res.Stdout)
	}

	res = it.Execute("echo dangling >", "/tmp")
	if res.Code != 1 || res.Stderr != "echo: redirection error: missing target file\n" {
		t.Errorf("echo dangling redirect = %+v", res)
	}
}

func TestCat(t *testing.T) {
	it := newTestInterpreter(t)
	fs := it.Fs()
	afero.WriteFile(fs, "/tmp/a.txt", []byte("alpha"), 0o644)
	afero.WriteFile(fs, "/tmp/b.txt", []byte("beta"), 0o644)
	fs.MkdirAll("/tmp/d", 0o755)

	res := it.Execute("cat a.txt", "/tmp")
	if res.Stdout != "alpha" || res.Code != 0 {
		t.Errorf("cat single = %+v", res)
	}

	// Multiple sources are joined with a newline.
	res = it.Execute("cat a.txt b.txt", "/tmp")
	if res.Stdout != "alpha\nbeta" {
		t.Errorf("cat join = %q", res.Stdout)
	}

	res = it.Execute("cat d", "/tmp")
	if res.Code != 1 || res.Stderr != "cat: d: Is a directory\n" {
		t.Errorf("cat dir = %+v", res)
	}

	res = it.Execute("cat nope", "/tmp")
	if res.Code != 1 || res.Stderr != "cat: nope: No such file or directory\n" {
		t.Errorf("cat missing = %+v", res)
	}

	res = it.Execute("cat", "/tmp")
	if res.Code != 2 || res.Stderr != "cat: missing file operand\n" {
		t.Errorf("cat no args = %+v", res)
	}

	// Source plus redirect copies immediately, no capture session.
	res = it.Execute("cat a.txt > copy.txt", "/tmp")
	if res.Code != 0 || it.Capturing() {
		t.Fatalf("cat src > dest = %+v capturing=%v", res, it.Capturing())
	}
	data, _ := afero.ReadFile(fs, "/tmp/copy.txt")
	if string(data) != "alpha" {
		t.Errorf("cat redirect copy = %q", data)
	}
}
