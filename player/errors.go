package player

import "fmt"

// ErrorCode classifies playback failures for user-facing reporting.
type ErrorCode string

const (
	ErrorAborted     ErrorCode = "aborted"
	ErrorNetwork     ErrorCode = "network"
	ErrorDecode      ErrorCode = "decode"
	ErrorUnsupported ErrorCode = "unsupported-format"
	ErrorBackend     ErrorCode = "backend"
)

// PlaybackError is surfaced through the adapter's error callback whenever
// playback fails. The adapter is back in the stopped state by the time a
// subscriber sees one.
type PlaybackError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *PlaybackError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("playback error (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("playback error (%s): %v", e.Code, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

func newPlaybackError(code ErrorCode, message string) *PlaybackError {
	return &PlaybackError{Code: code, Message: message}
}

func wrapPlaybackError(code ErrorCode, err error) *PlaybackError {
	return &PlaybackError{Code: code, Err: err}
}
