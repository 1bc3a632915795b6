package snn

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Registry maps preset names to specification trees. Presets are plain
// data: registering one costs nothing until it is compiled.
type Registry[B tensor.Backend] struct {
	presets map[string]ListGen[B]
}

// NewRegistry returns an empty preset registry.
func NewRegistry[B tensor.Backend]() *Registry[B] {
	return &Registry[B]{presets: make(map[string]ListGen[B])}
}

// Register adds or replaces a named preset.
func (r *Registry[B]) Register(name string, cfg ListGen[B]) {
	r.presets[name] = cfg
}

// Names returns all registered preset names, sorted.
func (r *Registry[B]) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the tree registered under name. An unknown name is a
// configuration error listing every valid name.
func (r *Registry[B]) Resolve(name string) (ListGen[B], error) {
	cfg, ok := r.presets[name]
	if !ok {
		return nil, errors.Errorf("registry: unknown preset %q (valid: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	return cfg, nil
}

// ModelGen is a compiled top-level network: a single-branch Block driven
// step by step over a sequence of inputs.
type ModelGen[B tensor.Backend] struct {
	block *Block[B]
}

// NewModelGen compiles cfg as the sole branch of a top-level block, the
// same wrapping a caller would get from Compile(backend, in, ListGen{cfg}).
func NewModelGen[B tensor.Backend](backend B, inChannels int, cfg ListGen[B]) (*ModelGen[B], error) {
	block, err := Compile(backend, inChannels, ListGen[B]{cfg})
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("compiled model: %d layers, %d -> %d channels",
		len(cfg), block.InChannels(), block.OutChannels())
	return &ModelGen[B]{block: block}, nil
}

// NewModelGenFromRegistry resolves name in r and compiles it.
func NewModelGenFromRegistry[B tensor.Backend](backend B, inChannels int, r *Registry[B], name string) (*ModelGen[B], error) {
	cfg, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return NewModelGen(backend, inChannels, cfg)
}

// Step runs one time step, threading hidden state. A nil state starts a
// fresh sequence; the incoming container is never mutated.
func (m *ModelGen[B]) Step(x *tensor.Tensor[B], state State[B]) (*tensor.Tensor[B], State[B]) {
	return m.block.Forward(x, state)
}

// ForwardSequence runs the model over a sequence of time steps, threading
// state from each step into the next, and returns the per-step outputs.
func (m *ModelGen[B]) ForwardSequence(xs []*tensor.Tensor[B]) []*tensor.Tensor[B] {
	outs := make([]*tensor.Tensor[B], len(xs))
	var state State[B]
	for t, x := range xs {
		outs[t], state = m.block.Forward(x, state)
	}
	return outs
}

// NewState returns an all-absent state container for the model.
func (m *ModelGen[B]) NewState() State[B] {
	return m.block.NewState()
}

// Block exposes the compiled top-level block.
func (m *ModelGen[B]) Block() *Block[B] {
	return m.block
}

// InChannels returns the channel count the model was compiled for.
func (m *ModelGen[B]) InChannels() int {
	return m.block.InChannels()
}

// OutChannels returns the model's output channel count.
func (m *ModelGen[B]) OutChannels() int {
	return m.block.OutChannels()
}

// Taps returns every Storage tap in the model, depth first.
func (m *ModelGen[B]) Taps() []*nn.Storage[B] {
	return m.block.Taps()
}

// Parameters returns all trainable parameters.
func (m *ModelGen[B]) Parameters() []*nn.Parameter[B] {
	return m.block.Parameters()
}

// StateDict returns all parameters keyed by structural position.
func (m *ModelGen[B]) StateDict() map[string]*tensor.RawTensor {
	return m.block.StateDict()
}

// LoadStateDict loads parameters saved from an identically shaped model.
func (m *ModelGen[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return m.block.LoadStateDict(stateDict)
}
