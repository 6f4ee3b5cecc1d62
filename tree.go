package collapse

// State is the disclosure state of a collapse block.
type State int

// State constants. The zero value is Collapsed: blocks start closed unless
// something asks for them to be open.
const (
	Collapsed State = iota
	Expanded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// BlockID identifies a block within a Tree.
type BlockID int

// NoBlock is the BlockID of "no enclosing block".
const NoBlock BlockID = -1

// Block is a node in the collapse hierarchy.
type Block struct {
	ID     BlockID
	Parent BlockID
	State  State
}

// Tree is an arena of collapse blocks linked by parent indices. It mirrors
// the containment of collapse blocks in a document without holding the
// document itself; ancestor walks are loops over Parent indices.
//
// A block's State is independent of its ancestors' states. Whether content
// is actually visible is the conjunction over the whole ancestor chain,
// which is what IsWithinCollapsed evaluates.
//
// Tree is not safe for concurrent use. A page and everything that mutates it
// run on a single goroutine.
type Tree struct {
	blocks  []Block
	observe func(BlockID, State)
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{}
}

// Observe registers fn to be called after every state change. There is a
// single observer; it is used to project state onto markup.
func (t *Tree) Observe(fn func(BlockID, State)) {
	t.observe = fn
}

// Add appends a block whose nearest enclosing block is parent and returns
// its ID. An unknown parent is treated as NoBlock.
func (t *Tree) Add(parent BlockID, state State) BlockID {
	if !t.valid(parent) {
		parent = NoBlock
	}
	id := BlockID(len(t.blocks))
	t.blocks = append(t.blocks, Block{ID: id, Parent: parent, State: state})
	return id
}

// Len returns the number of blocks in the tree.
func (t *Tree) Len() int {
	return len(t.blocks)
}

// Block returns the block with the given ID.
func (t *Tree) Block(id BlockID) (Block, bool) {
	if !t.valid(id) {
		return Block{}, false
	}
	return t.blocks[id], true
}

// Parent returns the nearest enclosing block of id, or NoBlock.
func (t *Tree) Parent(id BlockID) BlockID {
	if !t.valid(id) {
		return NoBlock
	}
	return t.blocks[id].Parent
}

// Depth returns the number of blocks enclosing id.
func (t *Tree) Depth(id BlockID) int {
	depth := 0
	for p := t.Parent(id); p != NoBlock; p = t.Parent(p) {
		depth++
	}
	return depth
}

// Ancestors returns id followed by every enclosing block, innermost first.
func (t *Tree) Ancestors(id BlockID) []BlockID {
	var chain []BlockID
	for ; t.valid(id); id = t.blocks[id].Parent {
		chain = append(chain, id)
	}
	return chain
}

// IsCollapsed reports whether the block itself is collapsed. Unknown IDs are
// never collapsed.
func (t *Tree) IsCollapsed(id BlockID) bool {
	return t.valid(id) && t.blocks[id].State == Collapsed
}

// IsWithinCollapsed reports whether content whose innermost enclosing block
// is id is hidden, i.e. whether id or any block enclosing it is collapsed.
func (t *Tree) IsWithinCollapsed(id BlockID) bool {
	for ; t.valid(id); id = t.blocks[id].Parent {
		if t.blocks[id].State == Collapsed {
			return true
		}
	}
	return false
}

// SetState sets the state of id and reports whether it changed. The observer
// is only called on change.
func (t *Tree) SetState(id BlockID, state State) bool {
	if !t.valid(id) || t.blocks[id].State == state {
		return false
	}
	t.blocks[id].State = state
	if t.observe != nil {
		t.observe(id, state)
	}
	return true
}

func (t *Tree) valid(id BlockID) bool {
	return id >= 0 && int(id) < len(t.blocks)
}
