package nn

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Linear is a fully connected layer: output = input @ weight^T + bias.
//
// Input shape:  [batch, in_features]
// Weight shape: [in_features, out_features]
// Output shape: [batch, out_features]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int

	weight *Parameter[B] // [in_features, out_features]
	bias   *Parameter[B] // [out_features]

	backend B
}

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}

	weight := Xavier(inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}, backend)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend)),
		backend:     backend,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, in_features]
// Output: [batch, out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("linear: expected 2D input [batch, features], got %dD", len(shape)))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("linear: input features %d != expected %d", shape[1], l.inFeatures))
	}

	output := input.MatMul(l.weight.Tensor())

	// Broadcast bias over the batch dimension.
	data := output.Data()
	biasData := l.bias.Tensor().Data()
	for i := range data {
		data[i] += biasData[i%l.outFeatures]
	}

	return output
}

// Parameters returns all trainable parameters.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// StateDict returns a map of parameter names to raw tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := loadParam(stateDict, "weight", l.weight); err != nil {
		return err
	}
	return loadParam(stateDict, "bias", l.bias)
}

// String returns a string representation of the layer.
func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d)", l.inFeatures, l.outFeatures)
}
