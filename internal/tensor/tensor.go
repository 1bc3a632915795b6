package tensor

import "fmt"

// Tensor is a float32 tensor bound to a compute backend B.
// It provides the high-level, chainable operation API over RawTensor.
//
// Type parameter B must satisfy the Backend interface.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros(tensor.Shape{3, 4}, backend)
//	result := t.Add(t)
type Tensor[B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return &Tensor[B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, b.Device())
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data)

	return New(raw, b), nil
}

// Shape returns the tensor's shape.
func (t *Tensor[B]) Shape() Shape {
	return t.raw.Shape()
}

// NumElements returns the total number of elements.
func (t *Tensor[B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[B]) Backend() B {
	return t.backend
}

// Data returns the tensor's data buffer (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[B]) Data() []float32 {
	return t.raw.Data()
}

// At returns the element at the given multi-dimensional index.
func (t *Tensor[B]) At(indices ...int) float32 {
	return t.raw.At(indices...)
}

// Clone returns a deep copy of the tensor.
func (t *Tensor[B]) Clone() *Tensor[B] {
	return New(t.raw.Clone(), t.backend)
}

// Add performs element-wise addition.
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction.
func (t *Tensor[B]) Sub(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication.
func (t *Tensor[B]) Mul(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division.
func (t *Tensor[B]) Div(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Div(t.raw, other.raw), t.backend)
}

// AddScalar adds a scalar to every element.
func (t *Tensor[B]) AddScalar(scalar float32) *Tensor[B] {
	return New(t.backend.AddScalar(t.raw, scalar), t.backend)
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[B]) MulScalar(scalar float32) *Tensor[B] {
	return New(t.backend.MulScalar(t.raw, scalar), t.backend)
}

// MatMul performs matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (t *Tensor[B]) MatMul(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.MatMul(t.raw, other.raw), t.backend)
}

// GreaterScalar returns a 0/1 tensor marking elements strictly above threshold.
func (t *Tensor[B]) GreaterScalar(threshold float32) *Tensor[B] {
	return New(t.backend.GreaterScalar(t.raw, threshold), t.backend)
}

// Softmax applies softmax along the given dimension.
func (t *Tensor[B]) Softmax(dim int) *Tensor[B] {
	return New(t.backend.Softmax(t.raw, dim), t.backend)
}

// Sum returns the sum of all elements.
func (t *Tensor[B]) Sum() float32 {
	return t.backend.Sum(t.raw)
}

// Reshape returns a view with a new shape sharing the same buffer.
func (t *Tensor[B]) Reshape(dims ...int) *Tensor[B] {
	return New(t.raw.Reshape(Shape(dims)), t.backend)
}

// String returns a short description of the tensor.
func (t *Tensor[B]) String() string {
	return fmt.Sprintf("Tensor(shape=%v, backend=%s)", t.Shape(), t.backend.Name())
}
