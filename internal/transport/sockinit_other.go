//go:build !windows

package transport

// On every platform but Windows there is no process-wide socket
// subsystem to initialize; the OS network stack is always ready.
func platformInitSockets() error   { return nil }
func platformShutdownSockets()     {}
