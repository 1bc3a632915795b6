package snn

import (
	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// StateNode is one slot of a State container. Its zero value means "absent":
// a stateless position, or a stateful one before its first time step.
// Exactly one field is set on a non-absent slot, mirroring the tagged union
// inside the compiled block (leaf cell vs nested sub-graph).
type StateNode[B tensor.Backend] struct {
	Cell  nn.CellState // hidden state of a stateful leaf
	Block State[B]     // state of a nested sub-graph
}

// Absent reports whether the slot carries no state.
func (n StateNode[B]) Absent() bool {
	return n.Cell == nil && n.Block == nil
}

// BranchState holds one slot per layer position of a branch.
type BranchState[B tensor.Backend] []StateNode[B]

// State is the container threaded through Block.Forward: one BranchState per
// branch, nested containers mirroring nested blocks. Containers are produced
// fresh by every Forward call and never mutated in place, so a caller may
// keep an earlier container and branch a sequence from it.
type State[B tensor.Backend] []BranchState[B]
