package websh

import (
	"github.com/kballard/go-shellquote"
)

// tokenize splits a raw command line into shell-like tokens, honoring
// single quotes, double quotes, and backslash escapes. Unterminated
// quoting returns an error that the interpreter reports as a parse error
// with exit code 2.
func tokenize(line string) ([]string, error) {
	return shellquote.Split(line)
}
