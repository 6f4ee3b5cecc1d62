package collapse

// ExpandToReveal expands every collapsed block in the chain starting at id
// (the innermost block enclosing the content to reveal) so that the content
// becomes visible. Blocks are expanded innermost first.
//
// It reports whether any block was expanded. When one was, exactly one
// collapseStateDidChange event with source SourceExpandToReveal is sent to n,
// after the whole chain has settled, however many levels had to open.
// Content that is already visible causes no state change and no event.
func (t *Tree) ExpandToReveal(id BlockID, n Notifier) bool {
	if !t.expandChain(id) {
		return false
	}
	if n != nil {
		n.Notify(Event{Name: EventCollapseStateDidChange, Source: SourceExpandToReveal})
	}
	return true
}

// expandChain opens id and then its ancestors. An expanded block inside a
// collapsed ancestor still needs the walk to continue upwards, so the
// result is the disjunction over all levels rather than the innermost one.
func (t *Tree) expandChain(id BlockID) bool {
	if !t.IsWithinCollapsed(id) {
		return false
	}
	expanded := t.SetState(id, Expanded)
	further := t.expandChain(t.Parent(id))
	return expanded || further
}
