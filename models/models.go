// Copyright 2025 SpikeNet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models provides ready-made spiking backbones and task heads.
package models

import (
	"github.com/spikenet-ml/spikenet/internal/models"
	"github.com/spikenet-ml/spikenet/internal/tensor"
	"github.com/spikenet-ml/spikenet/snn"
)

// ResNet18 returns the 18-layer residual backbone tree.
func ResNet18[B tensor.Backend]() snn.ListGen[B] {
	return models.ResNet18[B]()
}

// ResNet34 returns the 34-layer residual backbone tree.
func ResNet34[B tensor.Backend]() snn.ListGen[B] {
	return models.ResNet34[B]()
}

// ResNet50 returns the 50-layer bottleneck residual backbone tree.
func ResNet50[B tensor.Backend]() snn.ListGen[B] {
	return models.ResNet50[B]()
}

// VGG11 returns the 11-layer plain convolutional backbone tree.
func VGG11[B tensor.Backend]() snn.ListGen[B] {
	return models.VGG11[B]()
}

// VGG16 returns the 16-layer plain convolutional backbone tree.
func VGG16[B tensor.Backend]() snn.ListGen[B] {
	return models.VGG16[B]()
}

// DefaultRegistry returns a registry with every built-in backbone.
func DefaultRegistry[B tensor.Backend]() *snn.Registry[B] {
	return models.DefaultRegistry[B]()
}

// Classifier is a spiking backbone with a rate-coded linear readout.
type Classifier[B tensor.Backend] = models.Classifier[B]

// NewClassifier compiles backbone and attaches a head with numClasses outputs.
func NewClassifier[B tensor.Backend](backend B, inChannels, numClasses int, backbone snn.ListGen[B]) (*Classifier[B], error) {
	return models.NewClassifier(backend, inChannels, numClasses, backbone)
}

// PyramidExtractor exposes tapped activations as a multi-scale feature
// pyramid.
type PyramidExtractor[B tensor.Backend] = models.PyramidExtractor[B]

// NewPyramidExtractor compiles backbone and collects its taps.
func NewPyramidExtractor[B tensor.Backend](backend B, inChannels int, backbone snn.ListGen[B]) (*PyramidExtractor[B], error) {
	return models.NewPyramidExtractor(backend, inChannels, backbone)
}
