package cpu

import (
	"testing"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

func rawFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.Data(), data)
	return raw
}

func TestConv2D_BasicForward(t *testing.T) {
	backend := New()

	// Input: [1, 1, 3, 3] with values 1-9
	input := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 1, 3, 3})
	// Kernel: [1, 1, 2, 2]
	kernel := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})

	output := backend.Conv2D(input, kernel, 1, 0)

	if !output.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("Output shape: expected [1 1 2 2], got %v", output.Shape())
	}

	// [0,0]: 1*1 + 2*2 + 3*4 + 4*5 = 37
	// [0,1]: 1*2 + 2*3 + 3*5 + 4*6 = 47
	// [1,0]: 1*4 + 2*5 + 3*7 + 4*8 = 67
	// [1,1]: 1*5 + 2*6 + 3*8 + 4*9 = 77
	expected := []float32{37, 47, 67, 77}
	for i, exp := range expected {
		if output.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, output.Data()[i])
		}
	}
}

func TestConv2D_WithPadding(t *testing.T) {
	backend := New()

	// 3x3 input, 3x3 kernel of ones, padding=1 keeps spatial size.
	input := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 1, 3, 3})
	kernel := rawFromSlice(t, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 1, 3, 3})

	output := backend.Conv2D(input, kernel, 1, 1)

	if !output.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("Output shape: expected [1 1 3 3], got %v", output.Shape())
	}

	// Center: sum of all = 45. Top-left corner: 1+2+4+5 = 12.
	if output.At(0, 0, 1, 1) != 45 {
		t.Errorf("Center: expected 45, got %.1f", output.At(0, 0, 1, 1))
	}
	if output.At(0, 0, 0, 0) != 12 {
		t.Errorf("Corner: expected 12, got %.1f", output.At(0, 0, 0, 0))
	}
}

func TestConv2D_WithStride(t *testing.T) {
	backend := New()

	// 4x4 input, 2x2 kernel, stride=2 -> 2x2 output.
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i)
	}
	input := rawFromSlice(t, data, tensor.Shape{1, 1, 4, 4})
	kernel := rawFromSlice(t, []float32{1, 0, 0, 1}, tensor.Shape{1, 1, 2, 2})

	output := backend.Conv2D(input, kernel, 2, 0)

	if !output.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("Output shape: expected [1 1 2 2], got %v", output.Shape())
	}

	// Each output = top-left + bottom-right of its window.
	expected := []float32{0 + 5, 2 + 7, 8 + 13, 10 + 15}
	for i, exp := range expected {
		if output.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, output.Data()[i])
		}
	}
}

func TestConv2D_MultiChannel(t *testing.T) {
	backend := New()

	// 2 input channels, 2x2 each; 1 output channel summing both.
	input := rawFromSlice(t, []float32{
		1, 2, 3, 4, // channel 0
		10, 20, 30, 40, // channel 1
	}, tensor.Shape{1, 2, 2, 2})
	kernel := rawFromSlice(t, []float32{1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 2, 2, 2})

	output := backend.Conv2D(input, kernel, 1, 0)

	if !output.Shape().Equal(tensor.Shape{1, 1, 1, 1}) {
		t.Fatalf("Output shape: expected [1 1 1 1], got %v", output.Shape())
	}
	if output.Data()[0] != 110 {
		t.Errorf("Output: expected 110, got %.1f", output.Data()[0])
	}
}

func TestConv2D_Batch(t *testing.T) {
	backend := New()

	// Batch of 2 identical images must give identical outputs.
	input := rawFromSlice(t, []float32{
		1, 2, 3, 4,
		1, 2, 3, 4,
	}, tensor.Shape{2, 1, 2, 2})
	kernel := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})

	output := backend.Conv2D(input, kernel, 1, 0)

	if !output.Shape().Equal(tensor.Shape{2, 1, 1, 1}) {
		t.Fatalf("Output shape: expected [2 1 1 1], got %v", output.Shape())
	}
	if output.Data()[0] != output.Data()[1] {
		t.Errorf("Batch elements differ: %.1f vs %.1f", output.Data()[0], output.Data()[1])
	}
	if output.Data()[0] != 30 {
		t.Errorf("Output: expected 30, got %.1f", output.Data()[0])
	}
}
