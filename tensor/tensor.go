// Copyright 2025 SpikeNet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the
// SpikeNet framework.
//
// The package defines the core types for dense float32 tensors:
//   - Tensor[B]: high-level tensor bound to a compute backend
//   - RawTensor: low-level storage the backends operate on
//   - Backend: interface for device-specific compute implementations
//   - Shape, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[*cpu.Backend](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[*cpu.Backend](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Backend is the interface compute backends implement.
type Backend = tensor.Backend

// RawTensor is the untyped storage a Backend operates on.
type RawTensor = tensor.RawTensor

// NewRaw allocates zeroed raw storage with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}

// Tensor is a dense float32 tensor bound to a compute backend.
type Tensor[B Backend] = tensor.Tensor[B]

// New wraps raw storage into a Tensor on backend b.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return tensor.New(raw, b)
}

// FromSlice creates a tensor from data laid out in row-major order.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros[B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Ones[B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	return tensor.Full[B](shape, value, b)
}

// Randn creates a tensor filled with values from the standard normal
// distribution N(0, 1).
func Randn[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Randn[B](shape, b)
}

// Rand creates a tensor filled with values uniform in [0, 1).
func Rand[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Rand[B](shape, b)
}
