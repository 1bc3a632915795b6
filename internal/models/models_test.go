package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spikenet-ml/spikenet/internal/backend/cpu"
	"github.com/spikenet-ml/spikenet/internal/snn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

type cpuB = *cpu.CPUBackend

func TestPresetsCompile(t *testing.T) {
	be := cpu.New()
	r := DefaultRegistry[cpuB]()

	wantOut := map[string]int{
		"resnet18": 512,
		"resnet34": 512,
		"resnet50": 2048,
		"vgg11":    512,
		"vgg16":    512,
	}
	require.ElementsMatch(t, []string{"resnet18", "resnet34", "resnet50", "vgg11", "vgg16"}, r.Names())

	for name, want := range wantOut {
		model, err := snn.NewModelGenFromRegistry(be, 3, r, name)
		require.NoError(t, err, name)
		assert.Equal(t, want, model.OutChannels(), name)
		assert.Positive(t, NumParameters[cpuB](model.Block()), name)
	}
}

func TestRegistryRejectsUnknownBackbone(t *testing.T) {
	be := cpu.New()
	_, err := snn.NewModelGenFromRegistry(be, 3, DefaultRegistry[cpuB](), "resnext")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resnet18")
}

func TestResNetBlockForward(t *testing.T) {
	be := cpu.New()
	// A single residual block, downsampling from 4 to 8 channels.
	cfg := snn.ListGen[cpuB]{
		snn.Conv[cpuB]{Out: 4},
		snn.Norm[cpuB]{},
		snn.LIF[cpuB]{},
	}
	cfg = append(cfg, basicBlock[cpuB](8, 2)...)

	model, err := snn.NewModelGen(be, 3, cfg)
	require.NoError(t, err)
	assert.Equal(t, 8, model.OutChannels())

	x := tensor.Rand[cpuB](tensor.Shape{1, 3, 8, 8}, be)
	out, state := model.Step(x, nil)
	assert.Equal(t, tensor.Shape{1, 8, 4, 4}, out.Shape())

	out2, _ := model.Step(x, state)
	assert.Equal(t, out.Shape(), out2.Shape())
}

func TestClassifier(t *testing.T) {
	be := cpu.New()
	backbone := snn.ListGen[cpuB]{
		snn.Conv[cpuB]{Out: 4},
		snn.Norm[cpuB]{},
		snn.LIF[cpuB]{},
		snn.Pool[cpuB]{Kind: snn.PoolSum},
	}

	c, err := NewClassifier(be, 2, 3, backbone)
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumClasses())

	xs := make([]*tensor.Tensor[cpuB], 4)
	for i := range xs {
		xs[i] = tensor.Rand[cpuB](tensor.Shape{2, 2, 8, 8}, be)
	}

	logits := c.Logits(xs)
	assert.Equal(t, tensor.Shape{2, 3}, logits.Shape())

	probs := c.Predict(xs)
	assert.Equal(t, tensor.Shape{2, 3}, probs.Shape())
	for n := 0; n < 2; n++ {
		sum := float32(0)
		for k := 0; k < 3; k++ {
			sum += probs.At(n, k)
		}
		assert.InDelta(t, 1.0, sum, 1e-5, "row %d", n)
	}
}

func TestClassifierRejectsBadConfig(t *testing.T) {
	be := cpu.New()
	_, err := NewClassifier(be, 2, 0, snn.ListGen[cpuB]{snn.Pass[cpuB]{}})
	require.Error(t, err)

	_, err = NewClassifier(be, 2, 3, snn.ListGen[cpuB]{snn.Conv[cpuB]{Out: -1}})
	require.Error(t, err)
}

func TestClassifierStateDictRoundTrip(t *testing.T) {
	be := cpu.New()
	backbone := snn.ListGen[cpuB]{snn.Conv[cpuB]{Out: 4}, snn.LIF[cpuB]{}}

	src, err := NewClassifier(be, 2, 3, backbone)
	require.NoError(t, err)
	dst, err := NewClassifier(be, 2, 3, backbone)
	require.NoError(t, err)
	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	xs := []*tensor.Tensor[cpuB]{tensor.Rand[cpuB](tensor.Shape{1, 2, 4, 4}, be)}
	assert.Equal(t, src.Logits(xs).Data(), dst.Logits(xs).Data())
}

func TestPyramidExtractor(t *testing.T) {
	be := cpu.New()
	backbone := snn.ListGen[cpuB]{
		snn.Conv[cpuB]{Out: 4},
		snn.LIF[cpuB]{},
		snn.Tap[cpuB]{},
		snn.Pool[cpuB]{Kind: snn.PoolSum},
		snn.Conv[cpuB]{Out: 8},
		snn.LIF[cpuB]{},
		snn.Tap[cpuB]{},
	}

	p, err := NewPyramidExtractor(be, 1, backbone)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Levels())

	x := tensor.Rand[cpuB](tensor.Shape{1, 1, 8, 8}, be)
	out, levels, state := p.Step(x, nil)
	require.NotNil(t, out)
	require.Len(t, levels, 2)
	assert.Equal(t, tensor.Shape{1, 4, 8, 8}, levels[0].Shape())
	assert.Equal(t, tensor.Shape{1, 8, 4, 4}, levels[1].Shape())

	_, _, state = p.Step(x, state)
	require.NotNil(t, state)
}

func TestPyramidRequiresTaps(t *testing.T) {
	be := cpu.New()
	_, err := NewPyramidExtractor(be, 1, snn.ListGen[cpuB]{snn.Pass[cpuB]{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taps")
}
