// internal/summary/table.go
package summary

// Node is one ensemble context of a partition tree. Sampled and NotSampled
// are owned exclusively by their parent.
type Node struct {
	TargetSetSize int
	Targeted      bool // TargetSetSize has been set at least once
	Ignored       bool
	Sampled       *Node
	NotSampled    *Node

	// bookkeeping while the builder resolves events; never exported
	pending     bool
	sampled     int
	notSampled  int
	incremented bool
}

// routed replaces a pending count once an event was routed into that branch.
const routed = -1

func (n *Node) clearPending() {
	n.pending = false
	n.sampled, n.notSampled = 0, 0
}

func (n *Node) finalize() {
	n.incremented = false
	n.clearPending()
}

// Block is a block id paired with its root node.
type Block struct {
	ID   string
	Root *Node
}

// Tick maps block ids to root nodes in first-seen order.
type Tick struct {
	ID     string
	blocks map[string]*Node
	order  []string
}

func newTick(id string) *Tick {
	return &Tick{ID: id, blocks: make(map[string]*Node)}
}

// Block returns the root node of block id.
func (t *Tick) Block(id string) (*Node, bool) {
	n, ok := t.blocks[id]
	return n, ok
}

// Blocks lists the blocks in insertion order.
func (t *Tick) Blocks() []Block {
	out := make([]Block, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Block{ID: id, Root: t.blocks[id]})
	}
	return out
}

func (t *Tick) ensure(id string) *Node {
	if n, ok := t.blocks[id]; ok {
		return n
	}
	n := &Node{}
	t.blocks[id] = n
	t.order = append(t.order, id)
	return n
}

// Table maps tick ids to ticks in first-seen order.
type Table struct {
	ticks map[string]*Tick
	order []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{ticks: make(map[string]*Tick)}
}

// Tick returns the tick with the given id.
func (t *Table) Tick(id string) (*Tick, bool) {
	tk, ok := t.ticks[id]
	return tk, ok
}

// Ticks lists the ticks in insertion order.
func (t *Table) Ticks() []*Tick {
	out := make([]*Tick, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.ticks[id])
	}
	return out
}

// Len is the number of ticks.
func (t *Table) Len() int { return len(t.order) }

func (t *Table) ensure(id string) *Tick {
	if tk, ok := t.ticks[id]; ok {
		return tk
	}
	tk := newTick(id)
	t.ticks[id] = tk
	t.order = append(t.order, id)
	return tk
}
