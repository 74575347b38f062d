package fetch

import (
	"time"

	"sentiguard/internal/domain/analysis"
)

// Phase is the lifecycle phase of a controller
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Phases lists every phase
var Phases = [...]Phase{PhaseIdle, PhaseLoading, PhaseSuccess, PhaseError}

// Terminal reports whether p ends a request (success or error)
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseError
}

// Result is the shape of a successful response. Len() == 0 means "no results".
type Result interface {
	Len() int
}

// State is an immutable snapshot of a controller.
// Data is set only in PhaseSuccess; Err and ErrorMessage only in PhaseError.
type State[T Result] struct {
	Phase        Phase
	Generation   uint64
	Request      analysis.Descriptor
	Data         T
	Err          error
	ErrorMessage string
	UpdatedAt    time.Time
}

// Result returns the data of a successful state
func (s State[T]) Result() (T, bool) {
	if s.Phase != PhaseSuccess {
		var zero T
		return zero, false
	}
	return s.Data, true
}
