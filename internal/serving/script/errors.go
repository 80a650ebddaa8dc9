package script

import "errors"

var (
	// ErrBodyTooLarge is returned when a request body exceeds the configured limit
	ErrBodyTooLarge = errors.New("request body too large")
	// ErrStart is returned when the script process could not be spawned
	ErrStart = errors.New("failed to start script")
	// ErrStdin is returned when the request body could not be passed to the script
	ErrStdin = errors.New("failed to write request body to script")
	// ErrWait is returned when waiting for the script failed for a reason other than its exit status
	ErrWait = errors.New("failed to wait for script")
	// ErrTimeout is returned when the script was killed after running for too long
	ErrTimeout = errors.New("script timed out")
	// ErrOutputTooLarge is returned when stdout or stderr exceeded the configured limit
	ErrOutputTooLarge = errors.New("script output too large")
)
