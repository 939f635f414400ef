package internal

import "log"

// ErrorCode classifies where a reported error originated.
type ErrorCode int

const (
	// ErrCodeScheduler marks a user job panicking during flushJobs. The
	// dev-mode warnings for rejected writes to readonly containers are
	// reported under this code too.
	ErrCodeScheduler ErrorCode = iota
	// ErrCodeAppErrorHandler marks a recursion-limit breach.
	ErrCodeAppErrorHandler
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeScheduler:
		return "scheduler"
	case ErrCodeAppErrorHandler:
		return "app-error-handler"
	default:
		return "unknown"
	}
}

// ErrorInfo accompanies every call to an ErrorHandler.
type ErrorInfo struct {
	Code    ErrorCode
	Context any
}

// ErrorHandler is invoked on job execution failure and on recursion-limit
// breach. Scheduler-level errors are never fatal to the runtime: they are
// surfaced here and the flush continues with the next job.
type ErrorHandler func(err any, info ErrorInfo)

// DefaultErrorHandler logs through the standard logger, the log-on-panic
// fallback used elsewhere in the reactivity ecosystem when no richer error
// channel has been wired up.
func DefaultErrorHandler(err any, info ErrorInfo) {
	log.Printf("reactant: %s error: %v", info.Code, err)
}
