package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run executes fn, turning any panic into an error log instead of a crash.
// Background loops in the process package run under this wrapper.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}
