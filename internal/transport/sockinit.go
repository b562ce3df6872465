package transport

import "sync/atomic"

// Socket subsystem lifecycle states: uninit -> initializing ->
// ready/failed. Exactly one caller wins the CAS from uninit to
// initializing; everyone else observes the final state.
const (
	sockUninit int32 = iota
	sockInitializing
	sockReady
	sockFailed
)

var (
	sockState  atomic.Int32
	sockErrMsg atomic.Value // string
)

// ensureSocketSubsystem performs the process-wide socket subsystem init
// exactly once. On platforms where no such init is meaningful (every
// platform except Windows), platformInitSockets is a no-op that always
// succeeds.
func ensureSocketSubsystem() error {
	for {
		switch sockState.Load() {
		case sockReady:
			return nil
		case sockFailed:
			if v, ok := sockErrMsg.Load().(string); ok {
				return errFromString(v)
			}
			return errFromString("socket subsystem init failed")
		case sockInitializing:
			continue
		default: // sockUninit
			if sockState.CompareAndSwap(sockUninit, sockInitializing) {
				if err := platformInitSockets(); err != nil {
					sockErrMsg.Store(err.Error())
					sockState.Store(sockFailed)
					return err
				}
				sockState.Store(sockReady)
				return nil
			}
		}
	}
}

// resetSocketSubsystem is used by Shutdown (via ShutdownTLS) to allow a
// subsequent Submit to re-initialize cleanly.
func resetSocketSubsystem() {
	if sockState.Load() == sockReady {
		platformShutdownSockets()
	}
	sockState.Store(sockUninit)
}
