package core

// Action represents a semantic game action, abstracted from physical key presses.
// Front-ends map keys, mouse and network messages to actions before they reach a game.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow
	ActionDown            // S, Down arrow
	ActionLeft            // A, Left arrow
	ActionRight           // D, Right arrow
	ActionActivate        // Space - pop at cursor
	ActionConfirm         // Enter - confirm selection in menu
	ActionBack            // B, Escape - go back to menu
	ActionRestart         // R - restart after game over
	ActionQuit            // Q, Ctrl+C - exit
	ActionPause           // P - pause/unpause
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionActivate:
		return "Activate"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame is the set of actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
