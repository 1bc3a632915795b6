package snn

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// node is one compiled position inside a branch: exactly one field is set.
type node[B tensor.Backend] struct {
	module nn.Module[B] // stateless leaf
	cell   nn.Cell[B]   // stateful leaf
	block  *Block[B]    // nested sub-graph
}

// Block is the executable form of a ListGen: parallel branches of resolved
// layers merged by summation, with a per-position mask marking which slots
// carry hidden state. The topology is fixed at compile time; only the layer
// parameters it holds are mutated, and only by an external trainer.
type Block[B tensor.Backend] struct {
	backend     B
	branches    [][]node[B]
	mask        [][]bool
	inChannels  int
	outChannels int
}

// Compile resolves a specification tree into an executable Block.
//
// Each element of cfgs is one branch: either a ListGen (a sequence of layer
// descriptors and nested trees) or a bare LayerGen (a single-layer branch).
// All branches must yield the same output channel count; a mismatch is a
// configuration error reported with the offending branch index. An empty
// branch passes its input through unchanged.
//
// Compilation is a one-time synchronous tree walk: every structural error is
// caught here, before any tensor flows.
func Compile[B tensor.Backend](backend B, inChannels int, cfgs ListGen[B]) (*Block[B], error) {
	if inChannels <= 0 {
		return nil, errors.Errorf("compile: input channels must be positive, got %d", inChannels)
	}

	b := &Block[B]{
		backend:    backend,
		inChannels: inChannels,
	}

	for i, branchCfg := range cfgs {
		var cfg ListGen[B]
		switch v := branchCfg.(type) {
		case ListGen[B]:
			cfg = v
		case LayerGen[B]:
			cfg = ListGen[B]{v}
		case nil:
			return nil, errors.Errorf("compile: branch %d is nil", i)
		default:
			return nil, errors.Errorf("compile: branch %d is neither a layer descriptor nor a nested tree (%T)", i, branchCfg)
		}

		nodes, mask, out, err := b.compileBranch(inChannels, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "branch %d", i)
		}
		if i == 0 {
			b.outChannels = out
		} else if out != b.outChannels {
			return nil, errors.Errorf(
				"compile: branch %d resolved %d output channels, but branch 0 resolved %d; merged branches must agree",
				i, out, b.outChannels)
		}
		b.branches = append(b.branches, nodes)
		b.mask = append(b.mask, mask)
	}

	if len(b.branches) == 0 {
		// No branches at all: a pure passthrough.
		b.branches = [][]node[B]{{}}
		b.mask = [][]bool{{}}
		b.outChannels = inChannels
	}

	return b, nil
}

// compileBranch walks one branch left to right, resolving descriptors and
// recursing into nested trees while tracking the running channel count.
func (b *Block[B]) compileBranch(inChannels int, cfg ListGen[B]) ([]node[B], []bool, int, error) {
	nodes := make([]node[B], 0, len(cfg))
	mask := make([]bool, 0, len(cfg))
	channels := inChannels

	for idx, u := range cfg {
		switch v := u.(type) {
		case ListGen[B]:
			sub, err := Compile(b.backend, channels, v)
			if err != nil {
				return nil, nil, 0, errors.Wrapf(err, "layer %d", idx)
			}
			nodes = append(nodes, node[B]{block: sub})
			mask = append(mask, true)
			channels = sub.OutChannels()

		case LayerGen[B]:
			layer, out, err := v.Resolve(channels, b.backend)
			if err != nil {
				return nil, nil, 0, errors.Wrapf(err, "layer %d", idx)
			}
			n, stateful := asNode(layer)
			if stateful != v.Stateful() {
				panic(fmt.Sprintf("snn: descriptor %T reports Stateful()=%v but resolved a %T", v, v.Stateful(), layer))
			}
			nodes = append(nodes, n)
			mask = append(mask, stateful)
			channels = out

		case nil:
			return nil, nil, 0, errors.Errorf("layer %d: nil element", idx)

		default:
			return nil, nil, 0, errors.Errorf("layer %d: neither a layer descriptor nor a nested tree (%T)", idx, u)
		}
	}

	return nodes, mask, channels, nil
}

// asNode wraps a resolved layer in the branch position union.
func asNode[B tensor.Backend](layer nn.Layer[B]) (node[B], bool) {
	switch l := layer.(type) {
	case nn.Cell[B]:
		return node[B]{cell: l}, true
	case nn.Module[B]:
		return node[B]{module: l}, false
	default:
		panic(fmt.Sprintf("snn: resolved layer %T is neither a Module nor a Cell", layer))
	}
}

// NewState returns an all-absent State container shaped like the block:
// one slot per layer position of every branch.
func (b *Block[B]) NewState() State[B] {
	state := make(State[B], len(b.branches))
	for i, branch := range b.branches {
		state[i] = make(BranchState[B], len(branch))
	}
	return state
}

// Forward executes one time step.
//
// A nil state starts a fresh sequence. The returned container is always
// freshly allocated and shaped exactly like the block; the incoming one is
// never modified. A state that does not mirror the block's shape — or a
// state slot present at a stateless position — means the caller passed a
// container produced by a different topology, and Forward panics naming the
// offending position.
func (b *Block[B]) Forward(x *tensor.Tensor[B], state State[B]) (*tensor.Tensor[B], State[B]) {
	if state == nil {
		state = b.NewState()
	} else if len(state) != len(b.branches) {
		panic(fmt.Sprintf("snn: state has %d branches, block has %d", len(state), len(b.branches)))
	}

	var merged *tensor.Tensor[B]
	newState := make(State[B], len(b.branches))

	for bi, branch := range b.branches {
		branchState := state[bi]
		if branchState == nil {
			branchState = make(BranchState[B], len(branch))
		} else if len(branchState) != len(branch) {
			panic(fmt.Sprintf("snn: branch %d state has %d slots, branch has %d layers", bi, len(branchState), len(branch)))
		}

		newBranchState := make(BranchState[B], len(branch))
		y := x
		for idx, n := range branch {
			slot := branchState[idx]
			switch {
			case n.block != nil:
				if slot.Cell != nil {
					panic(fmt.Sprintf("snn: branch %d, layer %d: cell state at a nested block position", bi, idx))
				}
				sub, subState := n.block.Forward(y, slot.Block)
				y = sub
				newBranchState[idx] = StateNode[B]{Block: subState}
			case n.cell != nil:
				if slot.Block != nil {
					panic(fmt.Sprintf("snn: branch %d, layer %d: nested block state at a cell position", bi, idx))
				}
				out, cellState := n.cell.Step(y, slot.Cell)
				y = out
				newBranchState[idx] = StateNode[B]{Cell: cellState}
			default:
				if !slot.Absent() {
					panic(fmt.Sprintf("snn: branch %d, layer %d: state present at a stateless position", bi, idx))
				}
				y = n.module.Forward(y)
			}
		}

		if merged == nil {
			merged = y
		} else {
			merged = merged.Add(y)
		}
		newState[bi] = newBranchState
	}

	return merged, newState
}

// InChannels returns the channel count the block was compiled for.
func (b *Block[B]) InChannels() int {
	return b.inChannels
}

// OutChannels returns the common output channel count of all branches.
func (b *Block[B]) OutChannels() int {
	return b.outChannels
}

// NumBranches returns the number of parallel branches.
func (b *Block[B]) NumBranches() int {
	return len(b.branches)
}

// Mask returns a copy of the per-branch state masks: true marks positions
// whose slot carries hidden state (stateful leaves and nested blocks).
func (b *Block[B]) Mask() [][]bool {
	mask := make([][]bool, len(b.mask))
	for i, m := range b.mask {
		mask[i] = append([]bool(nil), m...)
	}
	return mask
}

// Taps returns every Storage tap in the block, depth first, in declaration
// order.
func (b *Block[B]) Taps() []*nn.Storage[B] {
	var taps []*nn.Storage[B]
	for _, branch := range b.branches {
		for _, n := range branch {
			switch {
			case n.block != nil:
				taps = append(taps, n.block.Taps()...)
			case n.module != nil:
				if tap, ok := n.module.(*nn.Storage[B]); ok {
					taps = append(taps, tap)
				}
			}
		}
	}
	return taps
}

// Parameters returns all trainable parameters, depth first.
func (b *Block[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, branch := range b.branches {
		for _, n := range branch {
			params = append(params, n.layer().Parameters()...)
		}
	}
	return params
}

// StateDict returns all parameters keyed by structural position
// ("b<branch>.<layer>." prefixes, nested recursively), so a recompiled
// identical tree loads them back positionally.
func (b *Block[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for bi, branch := range b.branches {
		for idx, n := range branch {
			prefix := fmt.Sprintf("b%d.%d.", bi, idx)
			for name, raw := range n.layer().StateDict() {
				stateDict[prefix+name] = raw
			}
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary produced by
// StateDict on a block compiled from the same tree.
func (b *Block[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for bi, branch := range b.branches {
		for idx, n := range branch {
			prefix := fmt.Sprintf("b%d.%d.", bi, idx)
			sub := make(map[string]*tensor.RawTensor)
			for key, raw := range stateDict {
				if len(key) > len(prefix) && key[:len(prefix)] == prefix {
					sub[key[len(prefix):]] = raw
				}
			}
			if len(sub) == 0 {
				continue
			}
			if err := n.layer().LoadStateDict(sub); err != nil {
				return errors.Wrapf(err, "branch %d, layer %d", bi, idx)
			}
		}
	}
	return nil
}

// layer returns the position's layer surface regardless of its variant.
func (n node[B]) layer() nn.Layer[B] {
	switch {
	case n.block != nil:
		return n.block
	case n.cell != nil:
		return n.cell
	default:
		return n.module
	}
}
