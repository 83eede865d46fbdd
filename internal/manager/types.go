package manager

// State represents lifecycle state of the inference session.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateError    State = "error"
	StateClosed   State = "closed"
)
