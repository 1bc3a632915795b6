package nn

import (
	"testing"

	"github.com/spikenet-ml/spikenet/internal/backend/cpu"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

func TestConv2D_ForwardShape(t *testing.T) {
	backend := cpu.New()

	// 3 -> 8 channels, 3x3 kernel, padding 1 keeps spatial size.
	conv := NewConv2D(3, 8, 3, 1, 1, false, backend)

	input := tensor.Zeros(tensor.Shape{2, 3, 16, 16}, backend)
	output := conv.Forward(input)

	expected := tensor.Shape{2, 8, 16, 16}
	if !output.Shape().Equal(expected) {
		t.Errorf("Output shape: expected %v, got %v", expected, output.Shape())
	}

	if len(conv.Parameters()) != 1 {
		t.Errorf("Bias-free conv should have 1 parameter, got %d", len(conv.Parameters()))
	}
}

func TestConv2D_BiasBroadcast(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 2, 1, 1, 0, true, backend)
	// weight = 0 so output is pure bias.
	for i := range conv.weight.Tensor().Data() {
		conv.weight.Tensor().Data()[i] = 0
	}
	conv.bias.Tensor().Data()[0] = 1.5
	conv.bias.Tensor().Data()[1] = -2.5

	input := tensor.Zeros(tensor.Shape{1, 1, 2, 2}, backend)
	output := conv.Forward(input)

	for i := 0; i < 4; i++ {
		if output.Data()[i] != 1.5 {
			t.Errorf("Channel 0 [%d]: expected 1.5, got %.2f", i, output.Data()[i])
		}
		if output.Data()[4+i] != -2.5 {
			t.Errorf("Channel 1 [%d]: expected -2.5, got %.2f", i, output.Data()[4+i])
		}
	}
}

func TestBatchNorm2D_Forward(t *testing.T) {
	backend := cpu.New()

	bn := NewBatchNorm2D(2, backend)
	input, err := tensor.FromSlice([]float32{1, 3, 10, 30}, tensor.Shape{1, 2, 1, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	output := bn.Forward(input)

	// Each channel normalizes to approximately {-1, 1}.
	for i, exp := range []float32{-1, 1, -1, 1} {
		got := output.Data()[i]
		if got < exp-0.01 || got > exp+0.01 {
			t.Errorf("Output[%d]: expected ~%.0f, got %.4f", i, exp, got)
		}
	}
}

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()

	l := NewLinear(3, 2, backend)
	// weight[i][j], identity-ish: out0 = x0, out1 = x1 + bias
	w := l.weight.Tensor().Data()
	for i := range w {
		w[i] = 0
	}
	w[0] = 1 // weight[0][0]
	w[3] = 1 // weight[1][1]
	l.bias.Tensor().Data()[1] = 10

	input, _ := tensor.FromSlice([]float32{5, 6, 7}, tensor.Shape{1, 3}, backend)
	output := l.Forward(input)

	if output.Data()[0] != 5 || output.Data()[1] != 16 {
		t.Errorf("Output: expected [5 16], got %v", output.Data())
	}
}

func TestStorage_RecordsInput(t *testing.T) {
	backend := cpu.New()

	tap := NewStorage[*cpu.CPUBackend]()
	input, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	output := tap.Forward(input)

	if output != input {
		t.Error("Storage must pass its input through unchanged")
	}
	if tap.Stored() != input {
		t.Error("Storage must record the forwarded tensor")
	}
}

func TestIdentity_Forward(t *testing.T) {
	backend := cpu.New()

	id := NewIdentity[*cpu.CPUBackend]()
	input := tensor.Ones(tensor.Shape{2, 2}, backend)

	if id.Forward(input) != input {
		t.Error("Identity must return its input")
	}
	if len(id.Parameters()) != 0 {
		t.Error("Identity must have no parameters")
	}
}

func TestSequential_ForwardAndStateDict(t *testing.T) {
	backend := cpu.New()

	seq := NewSequential[*cpu.CPUBackend](
		NewConv2D(1, 2, 1, 1, 0, false, backend),
		NewIdentity[*cpu.CPUBackend](),
		NewBatchNorm2D(2, backend),
	)

	input := tensor.Randn(tensor.Shape{1, 1, 4, 4}, backend)
	output := seq.Forward(input)

	if !output.Shape().Equal(tensor.Shape{1, 2, 4, 4}) {
		t.Errorf("Output shape: expected [1 2 4 4], got %v", output.Shape())
	}

	sd := seq.StateDict()
	if _, ok := sd["0.weight"]; !ok {
		t.Error("StateDict should contain 0.weight")
	}
	if _, ok := sd["2.weight"]; !ok {
		t.Error("StateDict should contain 2.weight")
	}

	if err := seq.LoadStateDict(sd); err != nil {
		t.Errorf("LoadStateDict round trip failed: %v", err)
	}
}

func TestConv2D_LoadStateDictShapeMismatch(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 2, 3, 1, 1, false, backend)

	bad, err := tensor.NewRaw(tensor.Shape{2, 1, 5, 5}, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if err := conv.LoadStateDict(map[string]*tensor.RawTensor{"weight": bad}); err == nil {
		t.Error("LoadStateDict should reject mismatched weight shape")
	}
}
