package nn

import (
	"math"
	"math/rand"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// KaimingNormal initializes weights from N(0, sqrt(2/fan)).
//
// This is the fan-out He initialization convolutional backbones use.
func KaimingNormal[B tensor.Backend](fan int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	std := math.Sqrt(2.0 / float64(fan))

	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = float32(rand.NormFloat64() * std)
	}
	return t
}

// Zeros creates a zero-filled tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a one-filled tensor.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Ones(shape, backend)
}
