// Package tensor provides the core tensor types and operations for the
// SpikeNet framework.
package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements the element-wise and scalar operations naively and panics on
// everything the tensor package's own tests do not exercise.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x / y })
}

// AddScalar adds a scalar to every element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar float32) *RawTensor {
	return m.unary(x, func(v float32) float32 { return v + scalar })
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar float32) *RawTensor {
	return m.unary(x, func(v float32) float32 { return v * scalar })
}

// GreaterScalar returns a 0/1 mask of elements strictly above threshold.
func (m *MockBackend) GreaterScalar(x *RawTensor, threshold float32) *RawTensor {
	return m.unary(x, func(v float32) float32 {
		if v > threshold {
			return 1
		}
		return 0
	})
}

// Sum returns the sum of all elements.
func (m *MockBackend) Sum(x *RawTensor) float32 {
	var total float32
	for _, v := range x.Data() {
		total += v
	}
	return total
}

// MatMul is not implemented in MockBackend.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	panic("MatMul not implemented in MockBackend")
}

// Conv2D is not implemented in MockBackend.
func (m *MockBackend) Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor {
	panic("Conv2D not implemented in MockBackend")
}

// AvgPool2D is not implemented in MockBackend.
func (m *MockBackend) AvgPool2D(input *RawTensor, kernelSize, stride, padding int) *RawTensor {
	panic("AvgPool2D not implemented in MockBackend")
}

// MaxPool2D is not implemented in MockBackend.
func (m *MockBackend) MaxPool2D(input *RawTensor, kernelSize, stride, padding int) *RawTensor {
	panic("MaxPool2D not implemented in MockBackend")
}

// AdaptiveAvgPool2D is not implemented in MockBackend.
func (m *MockBackend) AdaptiveAvgPool2D(input *RawTensor, outH, outW int) *RawTensor {
	panic("AdaptiveAvgPool2D not implemented in MockBackend")
}

// BatchNorm2D is not implemented in MockBackend.
func (m *MockBackend) BatchNorm2D(input, weight *RawTensor, eps float32) *RawTensor {
	panic("BatchNorm2D not implemented in MockBackend")
}

// Softmax is not implemented in MockBackend.
func (m *MockBackend) Softmax(x *RawTensor, dim int) *RawTensor {
	panic("Softmax not implemented in MockBackend")
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(float32, float32) float32) *RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("mock: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}
	result, err := NewRaw(a.Shape(), m.Device())
	if err != nil {
		panic(err)
	}
	aData, bData, out := a.Data(), b.Data(), result.Data()
	for i := range out {
		out[i] = op(aData[i], bData[i])
	}
	return result
}

func (m *MockBackend) unary(x *RawTensor, op func(float32) float32) *RawTensor {
	result, err := NewRaw(x.Shape(), m.Device())
	if err != nil {
		panic(err)
	}
	in, out := x.Data(), result.Data()
	for i := range out {
		out[i] = op(in[i])
	}
	return result
}
