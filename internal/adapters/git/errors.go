package git

import (
	"fmt"
	"strings"
)

// RemoteError is a failed remote query with everything the process left behind
type RemoteError struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Args     []string
	Err      error
}

// Error implements error
func (e *RemoteError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, msg)
}

// Unwrap returns the process error
func (e *RemoteError) Unwrap() error { return e.Err }

// Reason is the text shown to the owner: raw stderr, or the error text when stderr is empty
func (e *RemoteError) Reason() string {
	if strings.TrimSpace(e.Stderr) != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("git exited with code %d", e.ExitCode)
}
