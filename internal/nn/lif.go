package nn

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// LIFConfig holds the dynamics constants of a leaky integrate-and-fire cell.
//
// The defaults match the usual discretized LIF parameterization:
// synaptic and membrane time constants expressed as inverse taus, applied
// with a fixed Euler step dt.
type LIFConfig struct {
	TauSynInv  float32 // inverse synaptic time constant (1/s)
	TauMemInv  float32 // inverse membrane time constant (1/s)
	VThreshold float32
	VReset     float32
	DT         float32 // Euler integration step (s)
}

// DefaultLIFConfig returns the standard LIF constants.
func DefaultLIFConfig() LIFConfig {
	return LIFConfig{
		TauSynInv:  200,
		TauMemInv:  100,
		VThreshold: 1.0,
		VReset:     0.0,
		DT:         0.001,
	}
}

// LIFState is the hidden state of an LIFCell: synaptic current and membrane
// potential, both shaped like the cell's input.
type LIFState[B tensor.Backend] struct {
	I *tensor.Tensor[B] // synaptic current
	V *tensor.Tensor[B] // membrane potential
}

func (LIFState[B]) cellState() {}

// LIFCell is a leaky integrate-and-fire neuron layer.
//
// Per time step, with decayed current i' and potential v':
//
//	i' = (1 - dt*tau_syn_inv) * i
//	v' = (1 - dt*tau_mem_inv) * v + dt*tau_mem_inv * i'
//	z  = 1 if v' > v_threshold else 0        (the output spikes)
//	v  = (1-z) * v' + z * v_reset
//	i  = i' + input
//
// The cell is shape-agnostic: state tensors take the shape of the first
// input of the sequence. On a nil state the cell synthesizes its own zero
// initial condition; callers never construct an LIFState directly.
type LIFCell[B tensor.Backend] struct {
	noParams[B]
	cfg     LIFConfig
	backend B
}

// NewLIFCell creates a new LIF cell with default dynamics constants.
func NewLIFCell[B tensor.Backend](backend B) *LIFCell[B] {
	return NewLIFCellWithConfig(DefaultLIFConfig(), backend)
}

// NewLIFCellWithConfig creates a new LIF cell with explicit constants.
func NewLIFCellWithConfig[B tensor.Backend](cfg LIFConfig, backend B) *LIFCell[B] {
	return &LIFCell[B]{cfg: cfg, backend: backend}
}

// Step advances the cell by one time step.
//
// A nil state starts a fresh sequence with zero current and zero potential.
// The returned state is fresh; the incoming one is left untouched, so a
// caller may keep it and branch the sequence from that point.
func (c *LIFCell[B]) Step(input *tensor.Tensor[B], state CellState) (*tensor.Tensor[B], CellState) {
	var prev LIFState[B]
	switch s := state.(type) {
	case nil:
		prev = LIFState[B]{
			I: tensor.Zeros(input.Shape(), c.backend),
			V: tensor.Zeros(input.Shape(), c.backend),
		}
	case LIFState[B]:
		if !s.V.Shape().Equal(input.Shape()) {
			panic(fmt.Sprintf("lif: state shape %v does not match input shape %v", s.V.Shape(), input.Shape()))
		}
		prev = s
	default:
		panic(fmt.Sprintf("lif: unexpected state type %T", state))
	}

	cfg := c.cfg
	iDecayed := prev.I.MulScalar(1 - cfg.DT*cfg.TauSynInv)
	vDecayed := prev.V.MulScalar(1 - cfg.DT*cfg.TauMemInv).
		Add(iDecayed.MulScalar(cfg.DT * cfg.TauMemInv))

	spikes := vDecayed.GreaterScalar(cfg.VThreshold)

	// v = (1-z)*v' + z*v_reset
	keep := spikes.MulScalar(-1).AddScalar(1)
	vNew := vDecayed.Mul(keep)
	if cfg.VReset != 0 {
		vNew = vNew.Add(spikes.MulScalar(cfg.VReset))
	}

	iNew := iDecayed.Add(input)

	return spikes, LIFState[B]{I: iNew, V: vNew}
}

// Config returns the cell's dynamics constants.
func (c *LIFCell[B]) Config() LIFConfig {
	return c.cfg
}

// String returns a string representation of the layer.
func (c *LIFCell[B]) String() string {
	return fmt.Sprintf("LIFCell(v_th=%g, v_reset=%g)", c.cfg.VThreshold, c.cfg.VReset)
}
