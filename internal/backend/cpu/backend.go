// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Verify that CPUBackend implements Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.elementWise("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.elementWise("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.elementWise("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.elementWise("div", a, b, func(x, y float32) float32 { return x / y })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary(x, func(v float32) float32 { return v + scalar })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary(x, func(v float32) float32 { return v * scalar })
}

// GreaterScalar returns a 0/1 tensor marking elements strictly above threshold.
func (cpu *CPUBackend) GreaterScalar(x *tensor.RawTensor, threshold float32) *tensor.RawTensor {
	return cpu.unary(x, func(v float32) float32 {
		if v > threshold {
			return 1
		}
		return 0
	})
}

// Sum returns the sum of all elements.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) float32 {
	var total float32
	for _, v := range x.Data() {
		total += v
	}
	return total
}

func (cpu *CPUBackend) elementWise(op string, a, b *tensor.RawTensor, fn func(float32, float32) float32) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}

	result := cpu.newRaw(a.Shape())
	aData, bData, out := a.Data(), b.Data(), result.Data()
	for i := range out {
		out[i] = fn(aData[i], bData[i])
	}
	return result
}

func (cpu *CPUBackend) unary(x *tensor.RawTensor, fn func(float32) float32) *tensor.RawTensor {
	result := cpu.newRaw(x.Shape())
	in, out := x.Data(), result.Data()
	for i := range out {
		out[i] = fn(in[i])
	}
	return result
}

func (cpu *CPUBackend) newRaw(shape tensor.Shape) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to allocate result tensor: %v", err))
	}
	return raw
}
