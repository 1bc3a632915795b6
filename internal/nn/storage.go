package nn

import (
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Storage passes its input through unchanged while keeping a reference to it.
// It is intended for feature pyramids, where a collaborator needs feature
// maps from several depths of the network after a forward pass.
type Storage[B tensor.Backend] struct {
	noParams[B]
	stored *tensor.Tensor[B]
}

// NewStorage creates a new Storage tap.
func NewStorage[B tensor.Backend]() *Storage[B] {
	return &Storage[B]{}
}

// Forward records the input and returns it unchanged.
func (s *Storage[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	s.stored = input
	return input
}

// Stored returns the tensor recorded by the most recent Forward call,
// or nil if the tap has not been executed yet.
func (s *Storage[B]) Stored() *tensor.Tensor[B] {
	return s.stored
}

// String returns a string representation of the layer.
func (s *Storage[B]) String() string {
	return "Storage()"
}
