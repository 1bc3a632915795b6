package cpu

import (
	"math"
	"testing"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

func TestElementWiseOps(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{4, 3, 2, 1}, tensor.Shape{2, 2})

	add := backend.Add(a, b)
	sub := backend.Sub(a, b)
	mul := backend.Mul(a, b)

	for i, exp := range []float32{5, 5, 5, 5} {
		if add.Data()[i] != exp {
			t.Errorf("Add[%d]: expected %.1f, got %.1f", i, exp, add.Data()[i])
		}
	}
	for i, exp := range []float32{-3, -1, 1, 3} {
		if sub.Data()[i] != exp {
			t.Errorf("Sub[%d]: expected %.1f, got %.1f", i, exp, sub.Data()[i])
		}
	}
	for i, exp := range []float32{4, 6, 6, 4} {
		if mul.Data()[i] != exp {
			t.Errorf("Mul[%d]: expected %.1f, got %.1f", i, exp, mul.Data()[i])
		}
	}
}

func TestAddShapeMismatchPanics(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})

	defer func() {
		if recover() == nil {
			t.Error("Add with mismatched shapes should panic")
		}
	}()
	backend.Add(a, b)
}

func TestMatMul(t *testing.T) {
	backend := New()
	// [[1,2],[3,4]] @ [[5,6],[7,8]] = [[19,22],[43,50]]
	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	c := backend.MatMul(a, b)

	expected := []float32{19, 22, 43, 50}
	for i, exp := range expected {
		if c.Data()[i] != exp {
			t.Errorf("MatMul[%d]: expected %.1f, got %.1f", i, exp, c.Data()[i])
		}
	}
}

func TestMatMulRectangular(t *testing.T) {
	backend := New()
	// [1,3] @ [3,2]
	a := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
	b := rawFromSlice(t, []float32{1, 4, 2, 5, 3, 6}, tensor.Shape{3, 2})

	c := backend.MatMul(a, b)

	if !c.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("Shape: expected [1 2], got %v", c.Shape())
	}
	if c.Data()[0] != 14 || c.Data()[1] != 32 {
		t.Errorf("MatMul: expected [14 32], got %v", c.Data())
	}
}

func TestGreaterScalar(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float32{0.5, 1.0, 1.5, -2}, tensor.Shape{4})

	mask := backend.GreaterScalar(x, 1.0)

	expected := []float32{0, 0, 1, 0}
	for i, exp := range expected {
		if mask.Data()[i] != exp {
			t.Errorf("GreaterScalar[%d]: expected %.0f, got %.0f", i, exp, mask.Data()[i])
		}
	}
}

func TestBatchNorm2D(t *testing.T) {
	backend := New()

	// One channel with values {1,3}: mean 2, var 1.
	input := rawFromSlice(t, []float32{1, 3}, tensor.Shape{1, 1, 1, 2})
	weight := rawFromSlice(t, []float32{2}, tensor.Shape{1})

	output := backend.BatchNorm2D(input, weight, 0)

	// Normalized: {-1, 1}, scaled by 2: {-2, 2}.
	if math.Abs(float64(output.Data()[0]+2)) > 1e-5 {
		t.Errorf("Output[0]: expected -2, got %.4f", output.Data()[0])
	}
	if math.Abs(float64(output.Data()[1]-2)) > 1e-5 {
		t.Errorf("Output[1]: expected 2, got %.4f", output.Data()[1])
	}
}

func TestBatchNorm2D_PerChannelStats(t *testing.T) {
	backend := New()

	// Two channels with different scales; both normalize to {-1, 1}.
	input := rawFromSlice(t, []float32{
		1, 3, // channel 0
		100, 300, // channel 1
	}, tensor.Shape{1, 2, 1, 2})
	weight := rawFromSlice(t, []float32{1, 1}, tensor.Shape{2})

	output := backend.BatchNorm2D(input, weight, 1e-9)

	for i, exp := range []float32{-1, 1, -1, 1} {
		if math.Abs(float64(output.Data()[i]-exp)) > 1e-3 {
			t.Errorf("Output[%d]: expected %.0f, got %.4f", i, exp, output.Data()[i])
		}
	}
}

func TestSoftmax(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	y := backend.Softmax(x, -1)

	// Rows sum to 1.
	row0 := y.Data()[0] + y.Data()[1]
	row1 := y.Data()[2] + y.Data()[3]
	if math.Abs(float64(row0-1)) > 1e-5 || math.Abs(float64(row1-1)) > 1e-5 {
		t.Errorf("Softmax rows should sum to 1, got %.4f and %.4f", row0, row1)
	}
	// Larger logit gets larger probability.
	if y.Data()[0] >= y.Data()[1] {
		t.Errorf("Softmax: expected p[0] < p[1], got %.4f >= %.4f", y.Data()[0], y.Data()[1])
	}
}

func TestSumPoolViaAvgPool(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4})

	// Sum pooling = avg pooling rescaled by kernel area.
	avg := backend.AvgPool2D(input, 2, 2, 0)
	sum := backend.MulScalar(avg, 4)

	expected := []float32{14, 22, 46, 54}
	for i, exp := range expected {
		if sum.Data()[i] != exp {
			t.Errorf("SumPool[%d]: expected %.1f, got %.1f", i, exp, sum.Data()[i])
		}
	}
}
