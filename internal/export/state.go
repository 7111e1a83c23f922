// internal/export/state.go
//
// Export flow states.
//
// Context
//   The preview/download flow moves through a small state machine that the
//   document component reports to the user: Idle → Fetching → Ready →
//   Rendering → Succeeded or Failed.  A render failure stays Failed until
//   the next trigger re-enters Fetching; a failed lookup falls back to
//   Idle because there is no record to retry against.
//
//------------------------------------------------------------------------------

package export

// State is one step of the export flow.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateReady
	StateRendering
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateRendering:
		return "rendering"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
