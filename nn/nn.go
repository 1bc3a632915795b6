// Copyright 2025 SpikeNet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network layers: stateless
// modules, spiking cells and their trainable parameters.
package nn

import (
	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/serialization"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Layer is the common surface of everything that carries parameters.
type Layer[B tensor.Backend] = nn.Layer[B]

// Module is a stateless layer: output depends only on the current input.
type Module[B tensor.Backend] = nn.Module[B]

// Cell is a stateful layer stepped once per time step.
type Cell[B tensor.Backend] = nn.Cell[B]

// CellState is the opaque hidden state a Cell threads between steps.
type CellState = nn.CellState

// Parameter represents a trainable parameter.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Identity passes its input through unchanged.
type Identity[B tensor.Backend] = nn.Identity[B]

// NewIdentity creates an identity layer.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return nn.NewIdentity[B]()
}

// Linear is a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear[B](inFeatures, outFeatures, backend)
}

// Conv2D is a 2D convolutional layer with a square kernel.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a 2D convolutional layer.
//
// Example:
//
//	conv := nn.NewConv2D(3, 16, 3, 1, 1, false, backend)
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// BatchNorm2D is scale-only batch normalization over [N, C, H, W] inputs.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a batch normalization layer for numFeatures channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, backend)
}

// AvgPool2D is a 2D average pooling layer.
type AvgPool2D[B tensor.Backend] = nn.AvgPool2D[B]

// NewAvgPool2D creates an average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *AvgPool2D[B] {
	return nn.NewAvgPool2D(kernelSize, stride, padding, backend)
}

// MaxPool2D is a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool2D[B] {
	return nn.NewMaxPool2D(kernelSize, stride, padding, backend)
}

// SumPool2D is a 2D sum pooling layer.
type SumPool2D[B tensor.Backend] = nn.SumPool2D[B]

// NewSumPool2D creates a sum pooling layer.
func NewSumPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *SumPool2D[B] {
	return nn.NewSumPool2D(kernelSize, stride, padding, backend)
}

// AdaptiveAvgPool2D averages into a fixed output resolution.
type AdaptiveAvgPool2D[B tensor.Backend] = nn.AdaptiveAvgPool2D[B]

// NewAdaptiveAvgPool2D creates an adaptive average pooling layer.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	return nn.NewAdaptiveAvgPool2D[B](outH, outW, backend)
}

// Storage is a pass-through tap recording the activation that flows
// through it.
type Storage[B tensor.Backend] = nn.Storage[B]

// NewStorage creates a storage tap.
func NewStorage[B tensor.Backend]() *Storage[B] {
	return nn.NewStorage[B]()
}

// Sequential chains stateless modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Spiking cells

// LIFConfig holds the constants of the leaky integrate-and-fire dynamics.
type LIFConfig = nn.LIFConfig

// DefaultLIFConfig returns the standard LIF constants.
func DefaultLIFConfig() LIFConfig {
	return nn.DefaultLIFConfig()
}

// LIFState is the hidden state of an LIFCell.
type LIFState[B tensor.Backend] = nn.LIFState[B]

// LIFCell is a leaky integrate-and-fire spiking cell.
type LIFCell[B tensor.Backend] = nn.LIFCell[B]

// NewLIFCell creates an LIF cell with the default constants.
func NewLIFCell[B tensor.Backend](backend B) *LIFCell[B] {
	return nn.NewLIFCell(backend)
}

// NewLIFCellWithConfig creates an LIF cell with explicit constants.
func NewLIFCellWithConfig[B tensor.Backend](cfg LIFConfig, backend B) *LIFCell[B] {
	return nn.NewLIFCellWithConfig(cfg, backend)
}

// Save writes a layer's state dictionary to a .spk checkpoint file.
//
// Example:
//
//	err := nn.Save(model, "model.spk")
func Save[B tensor.Backend](layer Layer[B], path string) error {
	return serialization.Save(path, layer.StateDict())
}

// Load reads a .spk checkpoint file into layer, which must have the same
// parameter shapes it was saved with.
func Load[B tensor.Backend](path string, layer Layer[B]) error {
	stateDict, err := serialization.Load(path)
	if err != nil {
		return err
	}
	return layer.LoadStateDict(stateDict)
}
