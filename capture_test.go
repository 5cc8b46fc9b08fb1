package websh

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestHeredocLifecycle(t *testing.T) {
	it := newTestInterpreter(t)

	res := it.Execute("cat >> log.txt << EOF", "/tmp")
	if res.Stdout != "> " || res.Code != 0 {
		t.Fatalf("heredoc open = %+v", res)
	}
	if !it.Capturing() {
		t.Fatal("no capture session after heredoc open")
	}

	for _, line := range []string{"x", "y"} {
		res = it.Execute(line, "/tmp")
		if res.Stdout != "> " || res.Code != 0 {
			t.Fatalf("heredoc feed %q = %+v", line, res)
		}
	}

	res = it.Execute("EOF", "/tmp")
	if res.Code != 0 || res.Stdout != "" {
		t.Fatalf("heredoc close = %+v", res)
	}
	if it.Capturing() {
		t.Fatal("capture session still open after terminator")
	}

	data, _ := afero.ReadFile(it.Fs(), "/tmp/log.txt")
	if string(data) != "x\ny\n" {
		t.Errorf("heredoc content = %q, want %q", data, "x\ny\n")
	}

	// The default mode appends.
	it.Execute("cat >> log.txt << EOF", "/tmp")
	it.Execute("z", "/tmp")
	it.Execute("EOF", "/tmp")
	data, _ = afero.ReadFile(it.Fs(), "/tmp/log.txt")
	if string(data) != "x\ny\nz\n" {
		t.Errorf("second heredoc content = %q", data)
	}
}

func TestHeredocTruncateAndTerminator(t *testing.T) {
	it := newTestInterpreter(t)
	afero.WriteFile(it.Fs(), "/tmp/f.txt", []byte("old\n"), 0o644)

	it.Execute("cat > f.txt << DONE", "/tmp")
	it.Execute("fresh", "/tmp")
	// Terminator comparison trims surrounding whitespace.
	res := it.Execute("  DONE  ", "/tmp")
	if res.Code != 0 || it.Capturing() {
		t.Fatalf("custom terminator = %+v capturing=%v", res, it.Capturing())
	}

	data, _ := afero.ReadFile(it.Fs(), "/tmp/f.txt")
	if string(data) != "fresh\n" {
		t.Errorf("truncating heredoc content = %q", data)
	}
}

// While a session is open, input is buffered verbatim, never dispatched.
func TestCaptureSwallowsCommands(t *testing.T) {
	it := newTestInterpreter(t)

	it.Execute("cat > f.txt << EOF", "/tmp")
	res := it.Execute("pwd", "/tmp")
	if res.Stdout != "> " {
		t.Fatalf("command during capture = %+v", res)
	}
	it.Execute("EOF", "/tmp")

	data, _ := afero.ReadFile(it.Fs(), "/tmp/f.txt")
	if string(data) != "pwd\n" {
		t.Errorf("captured content = %q", data)
	}
}

func TestRawInputCapture(t *testing.T) {
	it := newTestInterpreter(t)

	res := it.Execute("cat > f.txt", "/tmp")
	if res.Stdout != "> " || !it.Capturing() {
		t.Fatalf("raw input open = %+v capturing=%v", res, it.Capturing())
	}

	it.Execute("line one", "/tmp")
	it.Execute("line two", "/tmp")

	// A blank line ends raw input.
	res = it.Execute("", "/tmp")
	if res.Code != 0 || it.Capturing() {
		t.Fatalf("raw input close = %+v capturing=%v", res, it.Capturing())
	}

	data, _ := afero.ReadFile(it.Fs(), "/tmp/f.txt")
	if string(data) != "line one\nline two\n" {
		t.Errorf("raw input content = %q", data)
	}
}

func TestRawInputAppend(t *testing.T) {
	it := newTestInterpreter(t)
	afero.WriteFile(it.Fs(), "/tmp/f.txt", []byte("kept\n"), 0o644)

	it.Execute("cat >> f.txt", "/tmp")
	it.Execute("more", "/tmp")
	it.Execute("", "/tmp")

	data, _ := afero.ReadFile(it.Fs(), "/tmp/f.txt")
	if string(data) != "kept\nmore\n" {
		t.Errorf("appended content = %q", data)
	}
}

func TestHeredocInvalidSyntax(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no redirect", "cat << EOF"},
		{"heredoc before redirect", "cat << EOF > f.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := newTestInterpreter(t)
			res := it.Execute(tt.line, "/tmp")
			if res.Code != 2 || res.Stderr != "cat: invalid syntax, use: cat [>>|>] file << EOF\n" {
				t.Errorf("Execute(%q) = %+v", tt.line, res)
			}
			if it.Capturing() {
				t.Error("invalid syntax opened a capture session")
			}
		})
	}
}

// A failed flush reports a write error, discards the buffer, and closes
// the session so the next line dispatches normally.
func TestCaptureFlushFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := base.MkdirAll("/tmp", 0o755); err != nil {
		t.Fatalf("MkdirAll(/tmp) error = %v", err)
	}
	it := New(afero.NewReadOnlyFs(base))

	res := it.Execute("cat > f.txt << EOF", "/tmp")
	if res.Stdout != "> " || !it.Capturing() {
		t.Fatalf("heredoc open = %+v capturing=%v", res, it.Capturing())
	}
	it.Execute("doomed", "/tmp")

	res = it.Execute("EOF", "/tmp")
	if res.Code != 1 {
		t.Errorf("flush failure code = %d, want 1", res.Code)
	}
	if !strings.HasPrefix(res.Stderr, "cat: write error: ") {
		t.Errorf("flush failure stderr = %q", res.Stderr)
	}
	if it.Capturing() {
		t.Error("capture session still open after failed flush")
	}
	if exists, _ := afero.Exists(base, "/tmp/f.txt"); exists {
		t.Error("failed flush created the target file")
	}

	res = it.Execute("pwd", "/tmp")
	if res.Stdout != "/tmp\n" || res.Code != 0 {
		t.Errorf("command after failed flush = %+v", res)
	}
}

func TestHeredocDefaultTerminator(t *testing.T) {
	it := newTestInterpreter(t)

	// No terminator word given: EOF is assumed.
	it.Execute("cat > f.txt <<", "/tmp")
	if !it.Capturing() {
		t.Fatal("no capture session")
	}
	it.Execute("body", "/tmp")
	it.Execute("EOF", "/tmp")

	data, _ := afero.ReadFile(it.Fs(), "/tmp/f.txt")
	if string(data) != "body\n" {
		t.Errorf("content = %q", data)
	}
}
