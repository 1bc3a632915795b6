package nn

import (
	"github.com/pkg/errors"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the only mutable pieces of a compiled graph: an external
// trainer updates them in place while the graph topology stays fixed.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[B]
}

// NewParameter creates a new trainable parameter.
//
// The parameter tensor should be initialized before creating the Parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// loadParam copies a named tensor from a state dictionary into a parameter,
// validating its shape.
func loadParam[B tensor.Backend](stateDict map[string]*tensor.RawTensor, name string, p *Parameter[B]) error {
	raw, ok := stateDict[name]
	if !ok {
		return errors.Errorf("missing parameter %q", name)
	}
	if !raw.Shape().Equal(p.tensor.Shape()) {
		return errors.Errorf("parameter %q: shape %v does not match %v", name, raw.Shape(), p.tensor.Shape())
	}
	copy(p.tensor.Data(), raw.Data())
	return nil
}
