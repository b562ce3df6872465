// Package panics converts a recovered panic into an error, so a worker
// goroutine can report failure through a Record instead of crashing the
// process.
package panics

import (
	"fmt"
	"runtime"
)

// Guard runs f and converts any panic into an error return.
func Guard(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
		}
	}()
	f()
	return nil
}

func toError(thrown interface{}) error {
	const size = 64 << 10
	trace := make([]byte, size)
	trace = trace[:runtime.Stack(trace, false)]
	if err, ok := thrown.(error); ok {
		return fmt.Errorf("panic: %w\n%s", err, trace)
	}
	return fmt.Errorf("panic: %v\n%s", thrown, trace)
}
