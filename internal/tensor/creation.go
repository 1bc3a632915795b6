package tensor

import (
	"fmt"
	"math/rand"
)

func mustRaw(shape Shape, device Device) *RawTensor {
	raw, err := NewRaw(shape, device)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return raw
}

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return New(mustRaw(shape, b.Device()), b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with the given value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	raw := mustRaw(shape, b.Device())
	data := raw.Data()
	for i := range data {
		data[i] = value
	}
	return New(raw, b)
}

// Randn creates a tensor with values drawn from N(0, 1).
func Randn[B Backend](shape Shape, b B) *Tensor[B] {
	raw := mustRaw(shape, b.Device())
	data := raw.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight/test data generation
		data[i] = float32(rand.NormFloat64())
	}
	return New(raw, b)
}

// Rand creates a tensor with values drawn uniformly from [0, 1).
func Rand[B Backend](shape Shape, b B) *Tensor[B] {
	raw := mustRaw(shape, b.Device())
	data := raw.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight/test data generation
		data[i] = rand.Float32()
	}
	return New(raw, b)
}
