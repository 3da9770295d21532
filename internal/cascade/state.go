package cascade

// State tracks a parameter through its execution lifecycle:
// Unresolved -> Resolving -> Resolved, or Resolving -> Failed.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
	Failed
)

// String implements fmt.Stringer for log lines.
func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unresolved"
	}
}
