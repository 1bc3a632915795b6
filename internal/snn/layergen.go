package snn

import (
	"github.com/pkg/errors"

	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Unit is one element of a ListGen: either a layer descriptor or a nested
// ListGen. The set is closed; the compiler enumerates it exhaustively.
type Unit[B tensor.Backend] interface {
	unit()
}

// ListGen is a network specification tree. Used as the argument to Compile,
// its elements are parallel branches; used as an element inside a branch, it
// is a nested sub-graph.
type ListGen[B tensor.Backend] []Unit[B]

func (ListGen[B]) unit() {}

// LayerGen is a layer descriptor: a reusable, immutable value that knows how
// to instantiate one executable layer for a given input channel count.
//
// Every Resolve call yields a fresh, independently parameterized instance, so
// one descriptor value may appear in several branches or trees.
type LayerGen[B tensor.Backend] interface {
	Unit[B]

	// Resolve instantiates the layer and reports the output channel count.
	// It fails only on a configuration error in the descriptor itself.
	Resolve(inChannels int, backend B) (nn.Layer[B], int, error)

	// Stateful reports whether resolved layers carry hidden state across
	// time steps. It is a fixed property of the descriptor kind.
	Stateful() bool
}

// Pass resolves to an identity layer.
type Pass[B tensor.Backend] struct{}

func (Pass[B]) unit() {}

// Stateful reports false: identity carries no hidden state.
func (Pass[B]) Stateful() bool { return false }

// Resolve returns an identity layer.
func (Pass[B]) Resolve(inChannels int, backend B) (nn.Layer[B], int, error) {
	return nn.NewIdentity[B](), inChannels, nil
}

// Conv resolves to a bias-free 2D convolution with padding Kernel/2.
// Kernel defaults to 3 and Stride to 1 when left zero.
type Conv[B tensor.Backend] struct {
	Out    int
	Kernel int
	Stride int
}

func (Conv[B]) unit() {}

// Stateful reports false: convolution carries no hidden state.
func (Conv[B]) Stateful() bool { return false }

// Resolve returns a fresh convolution layer with Out output channels.
func (c Conv[B]) Resolve(inChannels int, backend B) (nn.Layer[B], int, error) {
	if c.Out <= 0 {
		return nil, 0, errors.Errorf("conv: output channels must be positive, got %d", c.Out)
	}
	kernel := c.Kernel
	if kernel == 0 {
		kernel = 3
	}
	stride := c.Stride
	if stride == 0 {
		stride = 1
	}
	return nn.NewConv2D(inChannels, c.Out, kernel, stride, kernel/2, false, backend), c.Out, nil
}

// Norm resolves to a scale-only batch normalization layer.
type Norm[B tensor.Backend] struct{}

func (Norm[B]) unit() {}

// Stateful reports false: normalization carries no hidden state.
func (Norm[B]) Stateful() bool { return false }

// Resolve returns a fresh normalization layer for the current channel count.
func (Norm[B]) Resolve(inChannels int, backend B) (nn.Layer[B], int, error) {
	return nn.NewBatchNorm2D(inChannels, backend), inChannels, nil
}

// PoolKind selects the pooling reduction.
type PoolKind string

// Supported pooling reductions.
const (
	PoolAvg PoolKind = "avg"
	PoolMax PoolKind = "max"
	PoolSum PoolKind = "sum"
)

// Pool resolves to a 2D pooling layer of the given kind.
// Kernel and Stride both default to 2 when left zero.
type Pool[B tensor.Backend] struct {
	Kind   PoolKind
	Kernel int
	Stride int
}

func (Pool[B]) unit() {}

// Stateful reports false: pooling carries no hidden state.
func (Pool[B]) Stateful() bool { return false }

// Resolve returns a fresh pooling layer. An unknown Kind is a configuration
// error.
func (p Pool[B]) Resolve(inChannels int, backend B) (nn.Layer[B], int, error) {
	kernel := p.Kernel
	if kernel == 0 {
		kernel = 2
	}
	stride := p.Stride
	if stride == 0 {
		stride = 2
	}
	switch p.Kind {
	case PoolAvg:
		return nn.NewAvgPool2D(kernel, stride, 0, backend), inChannels, nil
	case PoolMax:
		return nn.NewMaxPool2D(kernel, stride, 0, backend), inChannels, nil
	case PoolSum:
		return nn.NewSumPool2D(kernel, stride, 0, backend), inChannels, nil
	default:
		return nil, 0, errors.Errorf("pool: unknown kind %q (valid: avg, max, sum)", p.Kind)
	}
}

// LIF resolves to a leaky integrate-and-fire cell, the temporally-stateful
// unit of the descriptor set.
type LIF[B tensor.Backend] struct {
	// Config overrides the cell dynamics when non-nil.
	Config *nn.LIFConfig
}

func (LIF[B]) unit() {}

// Stateful reports true: the cell carries current and membrane potential
// across time steps.
func (LIF[B]) Stateful() bool { return true }

// Resolve returns a fresh LIF cell.
func (l LIF[B]) Resolve(inChannels int, backend B) (nn.Layer[B], int, error) {
	if l.Config != nil {
		return nn.NewLIFCellWithConfig(*l.Config, backend), inChannels, nil
	}
	return nn.NewLIFCell(backend), inChannels, nil
}

// Tap resolves to a Storage layer: a passthrough that records its input so a
// collaborator can retrieve intermediate feature maps after a forward pass.
type Tap[B tensor.Backend] struct{}

func (Tap[B]) unit() {}

// Stateful reports false: the tap records within a step, not across steps.
func (Tap[B]) Stateful() bool { return false }

// Resolve returns a fresh Storage tap.
func (Tap[B]) Resolve(inChannels int, backend B) (nn.Layer[B], int, error) {
	return nn.NewStorage[B](), inChannels, nil
}
