package collapse

// EventName identifies a notification.
type EventName string

// Events fired by the disclosure layer.
const (
	// EventCollapseStateDidChange fires whenever the expanded/collapsed state
	// of one or more blocks changed. Source says which path changed it.
	EventCollapseStateDidChange EventName = "Collapse.collapseStateDidChange"

	// EventTargetDidReveal fires when the element targeted by the URL hash had
	// to be revealed by expanding the blocks hiding it.
	EventTargetDidReveal EventName = "Collapse.targetDidReveal"
)

// EventSource identifies which code path caused a collapseStateDidChange event.
type EventSource string

// Sources of collapseStateDidChange.
const (
	// SourcePrepare: at least one block started expanded during preparation
	// because the hash target was inside it. Fired once per pass.
	SourcePrepare EventSource = "prepareCollapseBlocks"

	// SourceExpandToReveal: blocks were opened to reveal an element.
	SourceExpandToReveal EventSource = "expandCollapseBlocksToReveal"

	// SourceDisclosureButton: a disclosure control changed state.
	SourceDisclosureButton EventSource = "Collapse.collapseBlockDisclosureButtonStateChanged"

	// SourceExpandLock: a collapsed block was permanently flattened.
	SourceExpandLock EventSource = "Collapse.expandLockCollapseBlocks"
)

// Event is a notification payload. Source is empty for events that carry no
// payload.
type Event struct {
	Name   EventName
	Source EventSource
}

// Notifier receives events.
type Notifier interface {
	Notify(e Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(e Event)

// Notify calls f(e).
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

// Handler handles a delivered event.
type Handler func(e Event)

// EventBus delivers events to handlers subscribed by event name.
type EventBus interface {
	Notifier

	// Subscribe registers h for events named name. The returned function
	// removes the subscription; calling it more than once is a no-op.
	Subscribe(name EventName, h Handler) (cancel func())
}
