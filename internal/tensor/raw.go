package tensor

import "fmt"

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation: a float32 buffer with
// row-major layout. Backends operate on RawTensors; the generic Tensor wrapper
// provides the high-level API.
//
// Spiking networks carry binary spike trains and membrane potentials, both of
// which fit float32, so RawTensor is single-dtype.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
	device Device
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the underlying float32 buffer (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (r *RawTensor) Data() []float32 {
	return r.data
}

// At returns the element at the given multi-dimensional index.
func (r *RawTensor) At(indices ...int) float32 {
	return r.data[r.flatIndex(indices)]
}

// Set writes the element at the given multi-dimensional index.
func (r *RawTensor) Set(value float32, indices ...int) {
	r.data[r.flatIndex(indices)] = value
}

func (r *RawTensor) flatIndex(indices []int) int {
	if len(indices) != len(r.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(r.shape), len(indices)))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= r.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d (size %d)", idx, i, r.shape[i]))
		}
		flat += idx * r.stride[i]
	}
	return flat
}

// Clone returns a deep copy of the RawTensor.
func (r *RawTensor) Clone() *RawTensor {
	out, err := NewRaw(r.shape, r.device)
	if err != nil {
		panic(fmt.Sprintf("tensor: clone: %v", err))
	}
	copy(out.data, r.data)
	return out
}

// Reshape returns a view with a new shape sharing the same buffer.
// The new shape must have the same number of elements.
func (r *RawTensor) Reshape(shape Shape) *RawTensor {
	if shape.NumElements() != r.NumElements() {
		panic(fmt.Sprintf("tensor: cannot reshape %v (%d elements) to %v (%d elements)",
			r.shape, r.NumElements(), shape, shape.NumElements()))
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: r.device,
	}
}
