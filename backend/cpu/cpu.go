// Copyright 2025 SpikeNet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU compute backend.
package cpu

import (
	internalcpu "github.com/spikenet-ml/spikenet/internal/backend/cpu"
	"github.com/spikenet-ml/spikenet/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[*cpu.Backend](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}
