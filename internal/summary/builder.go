// internal/summary/builder.go
package summary

import (
	"errors"
	"strings"
)

// ErrOrphanEvent is returned for events that arrive while no block is open.
// The event is dropped and the builder state is unchanged.
var ErrOrphanEvent = errors.New("event outside of any block")

// BlockKind tells initialization blocks from intervention blocks. Both share
// the same id namespace within a tick.
type BlockKind int

const (
	Initialization BlockKind = iota
	Intervention
)

func (k BlockKind) String() string {
	if k == Initialization {
		return "initialization"
	}
	return "intervention"
}

// Builder is the stack automaton. It is not safe for concurrent use; one
// Builder serves one run and may be fed any number of files in sequence.
type Builder struct {
	table *Table
	tick  *Tick
	stack []*Node

	block string
	kind  BlockKind
}

// NewBuilder returns a Builder with an empty table.
func NewBuilder() *Builder {
	return &Builder{table: NewTable()}
}

// Table returns the table built so far.
func (b *Builder) Table() *Table { return b.table }

// CurrentTick returns the id of the active tick, or "" before the first one.
func (b *Builder) CurrentTick() string {
	if b.tick == nil {
		return ""
	}
	return b.tick.ID
}

// CurrentBlock returns the id and kind of the open block.
func (b *Builder) CurrentBlock() (string, BlockKind, bool) {
	return b.block, b.kind, len(b.stack) > 0
}

// Depth is the number of open nodes, the block root included.
func (b *Builder) Depth() int { return len(b.stack) }

// StartTick makes id the active tick, creating it on first sight. Open nodes
// stay open until the next block starts.
func (b *Builder) StartTick(id string) {
	b.tick = b.table.ensure(id)
}

// StartBlock closes whatever is open and opens the root of block id in the
// active tick.
func (b *Builder) StartBlock(kind BlockKind, id string) error {
	b.unwind()
	if b.tick == nil {
		b.block = ""
		return ErrOrphanEvent
	}
	id = strings.Trim(id, "\"'.")
	b.stack = append(b.stack, b.tick.ensure(id))
	b.block, b.kind = id, kind
	return nil
}

// Target folds one target-set size into the node it belongs to.
//
// A pending sampling split on the current node routes a matching size into
// the sampled or not-sampled child. A size matching neither count drops the
// split. Nodes that already took a size during this pass are closed until a
// node is found that can take it; the block root is never closed.
func (b *Builder) Target(size int, ignored bool) error {
	if len(b.stack) == 0 {
		return ErrOrphanEvent
	}
	n := b.top()
	for {
		if n.pending {
			if n.sampled == size {
				if n.Sampled == nil {
					n.Sampled = &Node{}
				}
				n.sampled = routed
				n = b.push(n.Sampled)
				break
			}
			if n.notSampled == size {
				if n.NotSampled == nil {
					n.NotSampled = &Node{}
				}
				n.notSampled = routed
				n = b.push(n.NotSampled)
				break
			}
			n.clearPending()
		}
		if !n.incremented {
			break
		}
		n.incremented = false
		if len(b.stack) == 1 {
			break
		}
		b.stack = b.stack[:len(b.stack)-1]
		n = b.top()
	}

	if !n.Targeted {
		n.Targeted = true
		n.Ignored = ignored
	}
	n.TargetSetSize += size
	n.incremented = true
	return nil
}

// Sampling announces the split of the current node into sampled and
// not-sampled subsets. The counts are consumed by the next Target call.
func (b *Builder) Sampling(sampled, notSampled int) error {
	if len(b.stack) == 0 {
		return ErrOrphanEvent
	}
	n := b.top()
	n.pending = true
	n.sampled, n.notSampled = sampled, notSampled
	return nil
}

// Finish closes all open nodes and returns the table.
func (b *Builder) Finish() *Table {
	b.unwind()
	b.block = ""
	return b.table
}

func (b *Builder) top() *Node { return b.stack[len(b.stack)-1] }

func (b *Builder) push(n *Node) *Node {
	b.stack = append(b.stack, n)
	return n
}

// unwind drops per-pass bookkeeping from every open node, top first, and
// empties the stack.
func (b *Builder) unwind() {
	for i := len(b.stack) - 1; i >= 0; i-- {
		b.stack[i].finalize()
		b.stack[i] = nil
	}
	b.stack = b.stack[:0]
}
