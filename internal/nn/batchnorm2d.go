package nn

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// BatchNorm2D normalizes [batch, channels, height, width] inputs per channel
// using batch statistics, with a learnable scale and no shift:
//
//	Y = weight * (X - mean) / sqrt(var + eps)
//
// Dropping the shift keeps zero activity at zero, which matters when the
// following layer is a spiking cell integrating its input as current.
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	eps         float32

	weight *Parameter[B] // [channels]

	backend B
}

// NewBatchNorm2D creates a BatchNorm2D layer with weight initialized to ones.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid feature count %d", numFeatures))
	}

	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		eps:         1e-5,
		weight:      NewParameter("weight", Ones(tensor.Shape{numFeatures}, backend)),
		backend:     backend,
	}
}

// Forward normalizes the input per channel.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", shape[1], bn.numFeatures))
	}

	raw := bn.backend.BatchNorm2D(input.Raw(), bn.weight.Tensor().Raw(), bn.eps)
	return tensor.New(raw, bn.backend)
}

// Parameters returns the scale parameter.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.weight}
}

// StateDict returns a map of parameter names to raw tensors.
func (bn *BatchNorm2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": bn.weight.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (bn *BatchNorm2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadParam(stateDict, "weight", bn.weight)
}

// NumFeatures returns the channel count this layer normalizes.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.numFeatures
}

// String returns a string representation of the layer.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(num_features=%d, eps=%g)", bn.numFeatures, bn.eps)
}
