package cpu

import (
	"fmt"
	"math"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// BatchNorm2D normalizes [N, C, H, W] per channel using batch statistics and
// scales the result by weight [C]:
//
//	y = weight[c] * (x - mean_c) / sqrt(var_c + eps)
//
// There is no shift term; spiking backbones drop the bias so that a silent
// channel stays silent.
func (cpu *CPUBackend) BatchNorm2D(input, weight *tensor.RawTensor, eps float32) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}

	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	if !weight.Shape().Equal(tensor.Shape{c}) {
		panic(fmt.Sprintf("batchnorm2d: weight shape %v does not match %d channels", weight.Shape(), c))
	}

	output := cpu.newRaw(shape)
	in, out, gamma := input.Data(), output.Data(), weight.Data()

	plane := h * w
	count := float32(n * plane)

	for ch := 0; ch < c; ch++ {
		var sum float32
		for b := 0; b < n; b++ {
			base := (b*c + ch) * plane
			for i := 0; i < plane; i++ {
				sum += in[base+i]
			}
		}
		mean := sum / count

		var sqDiff float32
		for b := 0; b < n; b++ {
			base := (b*c + ch) * plane
			for i := 0; i < plane; i++ {
				d := in[base+i] - mean
				sqDiff += d * d
			}
		}
		variance := sqDiff / count

		scale := gamma[ch] / float32(math.Sqrt(float64(variance+eps)))
		for b := 0; b < n; b++ {
			base := (b*c + ch) * plane
			for i := 0; i < plane; i++ {
				out[base+i] = scale * (in[base+i] - mean)
			}
		}
	}

	return output
}
