package nn

import (
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Identity passes its input through unchanged.
//
// The graph compiler uses it for passthrough positions and empty branches.
type Identity[B tensor.Backend] struct{}

// NewIdentity creates a new Identity layer.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return &Identity[B]{}
}

// Forward returns the input unchanged.
func (id *Identity[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input
}

// Parameters returns an empty slice.
func (id *Identity[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// StateDict returns an empty state dictionary.
func (id *Identity[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for Identity.
func (id *Identity[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// String returns a string representation of the layer.
func (id *Identity[B]) String() string {
	return "Identity()"
}
