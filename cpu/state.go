package cpu

// State is the outcome of executing instructions.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING    = State(0) // running
	STATE_EXITED     = State(1) // exited
	STATE_NEED_INPUT = State(2) // need-input
)
