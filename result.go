package websh

// Result is the outcome of a single interpreter invocation.
//
// Dir is the working directory the caller should use for the next
// invocation. An empty Dir means "unchanged": the command reports global
// system state and never moves the caller, so the previously known
// directory must be retained.
type Result struct {
	Stdout string
	Stderr string
	Dir    string
	Code   int
}

// captureKind distinguishes the two multi-line input modes.
type captureKind int

const (
	captureHeredoc captureKind = iota
	captureRawInput
)

// captureStart is returned by a handler that wants to open a multi-line
// input session instead of producing output. The dispatcher owns the
// session lifecycle; handlers only describe the target.
type captureStart struct {
	kind       captureKind
	path       string // resolved target file
	appendMode bool
	terminator string // heredoc only; raw input ends on a blank line
}
