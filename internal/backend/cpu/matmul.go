package cpu

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// MatMul performs matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D operands, got %v @ %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions mismatch %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result := cpu.newRaw(tensor.Shape{m, n})

	aData, bData, out := a.Data(), b.Data(), result.Data()
	matmulFloat32(out, aData, bData, m, k, n)
	return result
}

// matmulFloat32 computes C = A @ B with the ikj loop order, which keeps the
// inner loop walking both B and C sequentially.
func matmulFloat32(c, a, b []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		cRow := c[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := a[i*k+p]
			if av == 0 {
				continue
			}
			bRow := b[p*n : (p+1)*n]
			for j := range cRow {
				cRow[j] += av * bRow[j]
			}
		}
	}
}
