package reactant

import "github.com/riftloom/reactant/internal"

// ErrorCode classifies where a reported error originated.
type ErrorCode = internal.ErrorCode

const (
	// ErrCodeScheduler marks a user job panicking during a flush. The
	// dev-mode warnings for rejected writes to readonly containers are
	// reported under this code too.
	ErrCodeScheduler = internal.ErrCodeScheduler
	// ErrCodeAppErrorHandler marks a recursion-limit breach.
	ErrCodeAppErrorHandler = internal.ErrCodeAppErrorHandler
)

// ErrorInfo accompanies every call to an ErrorHandler.
type ErrorInfo = internal.ErrorInfo

// ErrorHandler is invoked on job execution failure and on recursion-limit
// breach. Scheduler-level errors are never fatal to the runtime: they are
// surfaced here and the flush continues with the next job.
type ErrorHandler = internal.ErrorHandler

// SetErrorHandler installs the handler invoked on scheduler failures and
// recursion-limit breaches for the calling goroutine's runtime. Passing nil
// restores the default, which logs through the standard log package.
func SetErrorHandler(h ErrorHandler) {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SetErrorHandler(h) })
}
