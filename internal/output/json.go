// internal/output/json.go
package output

import (
	"io"

	"episum/internal/jsonutil"
	"episum/internal/summary"
	"episum/pkg/api"
)

// ToAPIEnsemble converts a tree node to the stable wire schema (v1). Builder
// bookkeeping has no counterpart in the wire type and never leaves here.
func ToAPIEnsemble(n *summary.Node) api.EnsembleV1 {
	var v api.EnsembleV1
	if n.Targeted {
		size := n.TargetSetSize
		v.TargetSetSize = &size
	}
	v.Ignored = n.Ignored
	if n.Sampled != nil {
		s := ToAPIEnsemble(n.Sampled)
		v.Sampled = &s
	}
	if n.NotSampled != nil {
		ns := ToAPIEnsemble(n.NotSampled)
		v.NotSampled = &ns
	}
	return v
}

// ToAPI converts the whole table, keeping tick and block order.
func ToAPI(t *summary.Table) api.SummaryV1 {
	out := make(api.SummaryV1, 0, t.Len())
	for _, tk := range t.Ticks() {
		blocks := tk.Blocks()
		v := api.TickV1{ID: tk.ID, Blocks: make([]api.BlockV1, 0, len(blocks))}
		for _, bl := range blocks {
			v.Blocks = append(v.Blocks, api.BlockV1{ID: bl.ID, Ensemble: ToAPIEnsemble(bl.Root)})
		}
		out = append(out, v)
	}
	return out
}

// WriteJSON writes the summary document with 2-space indentation.
func WriteJSON(w io.Writer, t *summary.Table) error {
	return jsonutil.EncodePretty(w, ToAPI(t))
}
