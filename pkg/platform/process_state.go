package platform

// ProcessState is the lifecycle state of a spawned [Process]. States form
// a finite state machine with transitions checked by
// [ValidProcessTransition]:
//
//	Unknown → Starting → Running → Exited
//	                             → Killed
//	Starting → Failed
//	Running  → Failed
//
// The zero value ("") is not a valid state; processes are created in
// [ProcessUnknown].
type ProcessState string

const (
	// ProcessUnknown is the state of a process handle before Spawn runs.
	ProcessUnknown ProcessState = "unknown"

	// ProcessStarting is set while the OS is creating the process.
	ProcessStarting ProcessState = "starting"

	// ProcessRunning indicates the process was created and has not yet
	// been reaped by Wait.
	ProcessRunning ProcessState = "running"

	// ProcessExited indicates the process terminated on its own and was
	// reaped. Its exit code is available.
	ProcessExited ProcessState = "exited"

	// ProcessKilled indicates the process was terminated by a signal and
	// was reaped.
	ProcessKilled ProcessState = "killed"

	// ProcessFailed indicates the process could not be created or could
	// not be reaped.
	ProcessFailed ProcessState = "failed"
)

// String returns the string representation of the state.
func (s ProcessState) String() string {
	return string(s)
}

// Valid reports whether the state is one of the recognized states.
func (s ProcessState) Valid() bool {
	switch s {
	case ProcessUnknown, ProcessStarting, ProcessRunning,
		ProcessExited, ProcessKilled, ProcessFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition can leave s.
func (s ProcessState) IsTerminal() bool {
	switch s {
	case ProcessExited, ProcessKilled, ProcessFailed:
		return true
	default:
		return false
	}
}

var validProcessTransitions = map[ProcessState][]ProcessState{
	ProcessUnknown:  {ProcessStarting},
	ProcessStarting: {ProcessRunning, ProcessFailed},
	ProcessRunning:  {ProcessExited, ProcessKilled, ProcessFailed},
}

// ValidProcessTransition reports whether a process may move from state
// from to state to. Same-state transitions are rejected.
func ValidProcessTransition(from, to ProcessState) bool {
	if from == to {
		return false
	}
	for _, t := range validProcessTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
