package models

import (
	"github.com/pkg/errors"

	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/snn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// PyramidExtractor runs a backbone whose tree contains taps and exposes the
// tapped activations as a multi-scale feature pyramid, one level per tap in
// depth-first order.
type PyramidExtractor[B tensor.Backend] struct {
	model *snn.ModelGen[B]
	taps  []*nn.Storage[B]
}

// NewPyramidExtractor compiles backbone and collects its taps. A backbone
// without taps cannot produce a pyramid and is rejected.
func NewPyramidExtractor[B tensor.Backend](backend B, inChannels int, backbone snn.ListGen[B]) (*PyramidExtractor[B], error) {
	model, err := snn.NewModelGen(backend, inChannels, backbone)
	if err != nil {
		return nil, errors.Wrap(err, "pyramid backbone")
	}
	taps := model.Taps()
	if len(taps) == 0 {
		return nil, errors.New("pyramid backbone has no taps")
	}
	return &PyramidExtractor[B]{model: model, taps: taps}, nil
}

// Step runs one time step and returns the backbone output, the tapped
// pyramid levels for this step and the new hidden state.
func (p *PyramidExtractor[B]) Step(x *tensor.Tensor[B], state snn.State[B]) (*tensor.Tensor[B], []*tensor.Tensor[B], snn.State[B]) {
	out, newState := p.model.Step(x, state)
	levels := make([]*tensor.Tensor[B], len(p.taps))
	for i, tap := range p.taps {
		levels[i] = tap.Stored()
	}
	return out, levels, newState
}

// Levels returns the number of pyramid levels.
func (p *PyramidExtractor[B]) Levels() int {
	return len(p.taps)
}

// Backbone exposes the compiled spiking backbone.
func (p *PyramidExtractor[B]) Backbone() *snn.ModelGen[B] {
	return p.model
}
