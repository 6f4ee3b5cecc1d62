package collapse

// HoverState is the state of a disclosure control's hover preview.
type HoverState int

// Hover states. A preview goes Idle → Pending → TemporarilyExpanded and
// ends Committed or Reverted; the next pointer entry starts over.
const (
	HoverIdle HoverState = iota
	HoverPending
	HoverTemporarilyExpanded
	HoverCommitted
	HoverReverted
)

// String returns the state name.
func (s HoverState) String() string {
	switch s {
	case HoverIdle:
		return "idle"
	case HoverPending:
		return "pending"
	case HoverTemporarilyExpanded:
		return "temporarily-expanded"
	case HoverCommitted:
		return "committed"
	case HoverReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// HoverAction is what the owner of a Hover must do after a transition.
type HoverAction int

// Hover actions.
const (
	HoverNone        HoverAction = iota
	HoverStartTimer              // schedule Fire after the dwell delay
	HoverCancelTimer             // stop the pending dwell timer
	HoverExpand                  // expand the block and mark it temporary
	HoverCommit                  // keep the block expanded, drop the temporary mark
	HoverRevert                  // collapse the block, drop the temporary mark
)

// String returns the action name.
func (a HoverAction) String() string {
	switch a {
	case HoverNone:
		return "none"
	case HoverStartTimer:
		return "start-timer"
	case HoverCancelTimer:
		return "cancel-timer"
	case HoverExpand:
		return "expand"
	case HoverCommit:
		return "commit"
	case HoverRevert:
		return "revert"
	default:
		return "unknown"
	}
}

// Hover is the expand-on-hover state machine of one disclosure control.
// The zero value is Idle. Hover holds no timers or listeners itself; it
// tells its owner what to do through the returned actions.
type Hover struct {
	state HoverState
}

// State returns the current state.
func (h *Hover) State() HoverState {
	return h.state
}

// Enter handles the pointer entering the control.
func (h *Hover) Enter() HoverAction {
	switch h.state {
	case HoverIdle, HoverCommitted, HoverReverted:
		h.state = HoverPending
		return HoverStartTimer
	}
	return HoverNone
}

// LeaveControl handles the pointer leaving the control. Before the dwell
// delay elapses this cancels the preview.
func (h *Hover) LeaveControl() HoverAction {
	if h.state == HoverPending {
		h.state = HoverIdle
		return HoverCancelTimer
	}
	return HoverNone
}

// Fire handles the dwell timer elapsing. collapsed is the block's current
// state; a block that is already expanded is left alone.
func (h *Hover) Fire(collapsed bool) HoverAction {
	if h.state != HoverPending {
		return HoverNone
	}
	if !collapsed {
		h.state = HoverIdle
		return HoverNone
	}
	h.state = HoverTemporarilyExpanded
	return HoverExpand
}

// Click handles a click anywhere in the block.
func (h *Hover) Click() HoverAction {
	if h.state == HoverTemporarilyExpanded {
		h.state = HoverCommitted
		return HoverCommit
	}
	return HoverNone
}

// LeaveBlock handles the pointer leaving the block.
func (h *Hover) LeaveBlock() HoverAction {
	switch h.state {
	case HoverPending:
		h.state = HoverIdle
		return HoverCancelTimer
	case HoverTemporarilyExpanded:
		h.state = HoverReverted
		return HoverRevert
	}
	return HoverNone
}
