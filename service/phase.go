package service

// Phase represents the lifecycle phase of a service instance
type Phase int

// Lifecycle phases. A freshly constructed service is PhaseStopped until
// Initialize moves it through PhaseInitializing to PhaseRunning. PhaseError
// is reachable from PhaseInitializing and PhaseRunning and is left only
// through an explicit Reset.
const (
	PhaseStopped Phase = iota
	PhaseInitializing
	PhaseRunning
	PhaseStopping
	PhaseError
)

// String returns the string representation of Phase
func (p Phase) String() string {
	switch p {
	case PhaseStopped:
		return "stopped"
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}
