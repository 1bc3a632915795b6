package cpu

import (
	"fmt"
	"math"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// AvgPool2D performs 2D average pooling over [N, C, H, W].
//
// Padded positions count as zeros and the divisor is always kernelSize², so
// sum pooling can be recovered exactly as AvgPool2D(x) * kernelSize².
func (cpu *CPUBackend) AvgPool2D(input *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	return cpu.pool2d("avgpool2d", input, kernelSize, stride, padding,
		func(window []float32) float32 {
			var sum float32
			for _, v := range window {
				sum += v
			}
			return sum / float32(kernelSize*kernelSize)
		})
}

// MaxPool2D performs 2D max pooling over [N, C, H, W].
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	return cpu.pool2d("maxpool2d", input, kernelSize, stride, padding,
		func(window []float32) float32 {
			max := float32(math.Inf(-1))
			for _, v := range window {
				if v > max {
					max = v
				}
			}
			return max
		})
}

// pool2d applies reduce to each kernelSize×kernelSize window. The window
// buffer passed to reduce always holds kernelSize² entries; out-of-bounds
// positions are zero.
func (cpu *CPUBackend) pool2d(op string, input *tensor.RawTensor, kernelSize, stride, padding int, reduce func([]float32) float32) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: input must be 4D [N,C,H,W], got %dD", op, len(shape)))
	}
	if kernelSize <= 0 || stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("%s: invalid kernel=%d stride=%d padding=%d", op, kernelSize, stride, padding))
	}

	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	hOut := (h+2*padding-kernelSize)/stride + 1
	wOut := (w+2*padding-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("%s: invalid output dimensions out_h=%d, out_w=%d", op, hOut, wOut))
	}

	output := cpu.newRaw(tensor.Shape{n, c, hOut, wOut})
	in, out := input.Data(), output.Data()
	window := make([]float32, kernelSize*kernelSize)

	for img := 0; img < n*c; img++ {
		src := in[img*h*w : (img+1)*h*w]
		dst := out[img*hOut*wOut : (img+1)*hOut*wOut]
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				wi := 0
				for ky := 0; ky < kernelSize; ky++ {
					iy := oy*stride + ky - padding
					for kx := 0; kx < kernelSize; kx++ {
						ix := ox*stride + kx - padding
						if iy < 0 || iy >= h || ix < 0 || ix >= w {
							window[wi] = 0
						} else {
							window[wi] = src[iy*w+ix]
						}
						wi++
					}
				}
				dst[oy*wOut+ox] = reduce(window)
			}
		}
	}

	return output
}

// AdaptiveAvgPool2D averages each channel down to an [outH, outW] grid.
// Bin boundaries follow floor(i*H/outH) .. ceil((i+1)*H/outH).
func (cpu *CPUBackend) AdaptiveAvgPool2D(input *tensor.RawTensor, outH, outW int) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("adaptiveavgpool2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptiveavgpool2d: invalid output size %dx%d", outH, outW))
	}

	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	output := cpu.newRaw(tensor.Shape{n, c, outH, outW})
	in, out := input.Data(), output.Data()

	for img := 0; img < n*c; img++ {
		src := in[img*h*w : (img+1)*h*w]
		dst := out[img*outH*outW : (img+1)*outH*outW]
		for oy := 0; oy < outH; oy++ {
			y0 := oy * h / outH
			y1 := ((oy+1)*h + outH - 1) / outH
			for ox := 0; ox < outW; ox++ {
				x0 := ox * w / outW
				x1 := ((ox+1)*w + outW - 1) / outW
				var sum float32
				for iy := y0; iy < y1; iy++ {
					for ix := x0; ix < x1; ix++ {
						sum += src[iy*w+ix]
					}
				}
				dst[oy*outW+ox] = sum / float32((y1-y0)*(x1-x0))
			}
		}
	}

	return output
}
