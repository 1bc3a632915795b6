// Copyright 2025 SpikeNet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package snn provides the public API for building and running spiking
// networks from specification trees.
//
// A network is described as a ListGen, a recursive list of layer
// descriptors. Sibling ListGens inside a tree are parallel branches whose
// outputs are summed; a descriptor sequence inside a branch runs left to
// right. Compile resolves a tree into an executable Block, and ModelGen
// drives a compiled network step by step over an input sequence, threading
// the hidden state of its spiking cells.
//
// Example:
//
//	backend := cpu.New()
//	model, err := snn.NewModelGen(backend, 3, snn.ListGen[*cpu.Backend]{
//		snn.Conv[*cpu.Backend]{Out: 16},
//		snn.Norm[*cpu.Backend]{},
//		snn.LIF[*cpu.Backend]{},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, state := model.Step(frame, nil)
package snn

import (
	"github.com/spikenet-ml/spikenet/internal/snn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Specification trees

// Unit is one element of a specification tree: a layer descriptor or a
// nested tree.
type Unit[B tensor.Backend] = snn.Unit[B]

// ListGen is a specification tree.
type ListGen[B tensor.Backend] = snn.ListGen[B]

// LayerGen is a single layer descriptor.
type LayerGen[B tensor.Backend] = snn.LayerGen[B]

// Pass passes the activation through unchanged.
type Pass[B tensor.Backend] = snn.Pass[B]

// Conv describes a bias-free square-kernel convolution.
type Conv[B tensor.Backend] = snn.Conv[B]

// Norm describes scale-only batch normalization.
type Norm[B tensor.Backend] = snn.Norm[B]

// PoolKind selects the pooling reduction.
type PoolKind = snn.PoolKind

// Pooling reductions.
const (
	PoolAvg PoolKind = snn.PoolAvg
	PoolMax PoolKind = snn.PoolMax
	PoolSum PoolKind = snn.PoolSum
)

// Pool describes a 2D pooling layer.
type Pool[B tensor.Backend] = snn.Pool[B]

// LIF describes a leaky integrate-and-fire spiking cell.
type LIF[B tensor.Backend] = snn.LIF[B]

// Tap describes a storage tap recording the activation flowing through it.
type Tap[B tensor.Backend] = snn.Tap[B]

// ParseSpec decodes a YAML specification tree.
func ParseSpec[B tensor.Backend](data []byte) (ListGen[B], error) {
	return snn.ParseSpec[B](data)
}

// Compiled networks

// Block is the executable form of a specification tree.
type Block[B tensor.Backend] = snn.Block[B]

// Compile resolves a specification tree into an executable Block.
func Compile[B tensor.Backend](backend B, inChannels int, cfgs ListGen[B]) (*Block[B], error) {
	return snn.Compile(backend, inChannels, cfgs)
}

// State is the hidden state container of a Block, shaped exactly like its
// branch and layer structure.
type State[B tensor.Backend] = snn.State[B]

// BranchState holds the state slots of one branch.
type BranchState[B tensor.Backend] = snn.BranchState[B]

// StateNode is one state slot: absent, a cell state or a nested block state.
type StateNode[B tensor.Backend] = snn.StateNode[B]

// ModelGen is a compiled top-level network driven over input sequences.
type ModelGen[B tensor.Backend] = snn.ModelGen[B]

// NewModelGen compiles cfg into a single-branch top-level network.
func NewModelGen[B tensor.Backend](backend B, inChannels int, cfg ListGen[B]) (*ModelGen[B], error) {
	return snn.NewModelGen(backend, inChannels, cfg)
}

// NewModelGenFromRegistry resolves a preset by name and compiles it.
func NewModelGenFromRegistry[B tensor.Backend](backend B, inChannels int, r *Registry[B], name string) (*ModelGen[B], error) {
	return snn.NewModelGenFromRegistry(backend, inChannels, r, name)
}

// Registry maps preset names to specification trees.
type Registry[B tensor.Backend] = snn.Registry[B]

// NewRegistry returns an empty preset registry.
func NewRegistry[B tensor.Backend]() *Registry[B] {
	return snn.NewRegistry[B]()
}
