// Package nn implements neural network layers for the SpikeNet framework.
//
// This package provides the executable units the graph compiler assembles:
//   - Module interface: stateless layers (convolution, normalization, pooling)
//   - Cell interface: temporally-stateful layers (spiking neuron cells)
//   - Parameter: trainable parameters
//   - Storage: passthrough tap recording intermediate feature maps
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Layer is the common surface of all executable layers, stateless or not:
// parameter access and positional state-dict serialization.
type Layer[B tensor.Backend] interface {
	// Parameters returns all trainable parameters of this layer.
	// Returns an empty slice for layers without trainable parameters.
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	// Returns an error if a required parameter is missing or has wrong shape.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// Module is a stateless layer: its output depends only on the current input.
type Module[B tensor.Backend] interface {
	Layer[B]

	// Forward computes the output of the layer given an input tensor.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]
}

// CellState is the opaque hidden state carried by a Cell between time steps.
// Each Cell implementation owns its concrete state type; callers only pass
// the value returned by the previous Step back into the next one, or nil to
// start a fresh sequence.
type CellState interface {
	cellState()
}

// Cell is a temporally-stateful layer: its output at time step t depends on
// hidden state carried from step t-1.
type Cell[B tensor.Backend] interface {
	Layer[B]

	// Step advances the cell by one time step. A nil state means the start
	// of a sequence; the cell synthesizes its own initial condition.
	// Step never mutates the state it is given; it returns a fresh one.
	Step(input *tensor.Tensor[B], state CellState) (*tensor.Tensor[B], CellState)
}
