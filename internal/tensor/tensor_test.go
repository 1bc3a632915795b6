package tensor

import (
	"fmt"
	"testing"
)

func assertEqualFloat32(t *testing.T, expected, got float32, msg string) {
	t.Helper()
	if expected != got {
		t.Errorf("%s: expected %v, got %v", msg, expected, got)
	}
}

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	a, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if !a.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape: expected {2,3}, got %v", a.Shape())
	}
	assertEqualFloat32(t, 6, a.At(1, 2), "At(1,2)")
}

func TestFromSliceBadShape(t *testing.T) {
	backend := NewMockBackend()

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, backend); err == nil {
		t.Error("FromSlice: expected error for mismatched shape/data length")
	}
}

func TestTensorAdd(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{10, 20, 30, 40}, Shape{2, 2}, backend)

	c := a.Add(b)

	expected := []float32{11, 22, 33, 44}
	for i, exp := range expected {
		assertEqualFloat32(t, exp, c.Data()[i], fmt.Sprintf("Add[%d]", i))
	}

	// Inputs are untouched (fresh result tensor).
	assertEqualFloat32(t, 1, a.Data()[0], "Add input a[0]")
}

func TestTensorSubMulDiv(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{10, 20, 30, 40}, Shape{4}, backend)
	b, _ := FromSlice([]float32{2, 4, 5, 8}, Shape{4}, backend)

	sub := a.Sub(b)
	mul := a.Mul(b)
	div := a.Div(b)

	for i, exp := range []float32{8, 16, 25, 32} {
		assertEqualFloat32(t, exp, sub.Data()[i], fmt.Sprintf("Sub[%d]", i))
	}
	for i, exp := range []float32{20, 80, 150, 320} {
		assertEqualFloat32(t, exp, mul.Data()[i], fmt.Sprintf("Mul[%d]", i))
	}
	for i, exp := range []float32{5, 5, 6, 5} {
		assertEqualFloat32(t, exp, div.Data()[i], fmt.Sprintf("Div[%d]", i))
	}
}

func TestTensorScalarOps(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3}, Shape{3}, backend)

	add := a.AddScalar(0.5)
	mul := a.MulScalar(2)

	for i, exp := range []float32{1.5, 2.5, 3.5} {
		assertEqualFloat32(t, exp, add.Data()[i], fmt.Sprintf("AddScalar[%d]", i))
	}
	for i, exp := range []float32{2, 4, 6} {
		assertEqualFloat32(t, exp, mul.Data()[i], fmt.Sprintf("MulScalar[%d]", i))
	}
}

func TestTensorGreaterScalar(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{-1, 0.5, 1, 1.5}, Shape{4}, backend)

	mask := a.GreaterScalar(1.0)

	for i, exp := range []float32{0, 0, 0, 1} {
		assertEqualFloat32(t, exp, mask.Data()[i], fmt.Sprintf("GreaterScalar[%d]", i))
	}
}

func TestTensorClone(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)

	b := a.Clone()
	b.Data()[0] = 99

	assertEqualFloat32(t, 1, a.Data()[0], "Clone: original unmodified")
	assertEqualFloat32(t, 99, b.Data()[0], "Clone: copy modified")
}

func TestTensorReshape(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)

	b := a.Reshape(3, 2)
	if !b.Shape().Equal(Shape{3, 2}) {
		t.Errorf("Reshape: expected {3,2}, got %v", b.Shape())
	}
	// Shares the buffer.
	b.Data()[0] = 42
	assertEqualFloat32(t, 42, a.Data()[0], "Reshape shares buffer")
}

func TestZerosOnesFull(t *testing.T) {
	backend := NewMockBackend()

	z := Zeros(Shape{2, 2}, backend)
	o := Ones(Shape{2, 2}, backend)
	f := Full(Shape{2, 2}, 3.5, backend)

	for i := 0; i < 4; i++ {
		assertEqualFloat32(t, 0, z.Data()[i], fmt.Sprintf("Zeros[%d]", i))
		assertEqualFloat32(t, 1, o.Data()[i], fmt.Sprintf("Ones[%d]", i))
		assertEqualFloat32(t, 3.5, f.Data()[i], fmt.Sprintf("Full[%d]", i))
	}
}

func TestRawAtSet(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	raw.Set(7, 1, 2)
	if raw.At(1, 2) != 7 {
		t.Errorf("At(1,2): expected 7, got %v", raw.At(1, 2))
	}
	// Row-major layout: flat index = 1*3 + 2 = 5.
	if raw.Data()[5] != 7 {
		t.Errorf("Data[5]: expected 7, got %v", raw.Data()[5])
	}
}
