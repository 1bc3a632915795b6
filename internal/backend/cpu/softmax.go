package cpu

import (
	"fmt"
	"math"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Softmax applies softmax along the given dimension.
// Negative dim counts from the end (-1 is the last dimension).
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("softmax: dimension %d out of range for shape %v", dim, shape))
	}

	output := cpu.newRaw(shape)
	in, out := x.Data(), output.Data()

	dimSize := shape[dim]
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	outer := x.NumElements() / (dimSize * inner)

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*dimSize*inner + i

			max := float32(math.Inf(-1))
			for d := 0; d < dimSize; d++ {
				if v := in[base+d*inner]; v > max {
					max = v
				}
			}

			var sum float32
			for d := 0; d < dimSize; d++ {
				e := float32(math.Exp(float64(in[base+d*inner] - max)))
				out[base+d*inner] = e
				sum += e
			}
			for d := 0; d < dimSize; d++ {
				out[base+d*inner] /= sum
			}
		}
	}

	return output
}
