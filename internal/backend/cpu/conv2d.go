package cpu

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Algorithm:
//  1. Transform input patches into columns (im2col)
//  2. Treat the kernel as a [C_out, C_in*K_h*K_w] matrix
//  3. Multiply and reshape to [N, C_out, H_out, W_out]
//
// Im2col turns convolution into a matmul, which is cache-friendly and reuses
// the matmul kernel.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}

	n := inputShape[0]
	cIn := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]
	cOut := kernelShape[0]
	kh := kernelShape[2]
	kw := kernelShape[3]

	if cIn != kernelShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, kernelShape[1]))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output := cpu.newRaw(tensor.Shape{n, cOut, hOut, wOut})

	inputData := input.Data()
	kernelData := kernel.Data()
	outputData := output.Data()

	// colBuf: [C_in*K_h*K_w, H_out*W_out], rebuilt per batch element.
	colWidth := hOut * wOut
	colHeight := cIn * kh * kw
	colBuf := make([]float32, colHeight*colWidth)

	for b := 0; b < n; b++ {
		im2colFloat32(colBuf, inputData[b*cIn*h*w:(b+1)*cIn*h*w], cIn, h, w, kh, kw, hOut, wOut, stride, padding)

		// [C_out, colHeight] @ [colHeight, colWidth] -> [C_out, colWidth]
		out := outputData[b*cOut*colWidth : (b+1)*cOut*colWidth]
		matmulFloat32(out, kernelData, colBuf, cOut, colHeight, colWidth)
	}

	return output
}

// im2colFloat32 unfolds one [C, H, W] image into a [C*K_h*K_w, H_out*W_out]
// column matrix. Out-of-bounds (padding) positions stay zero.
func im2colFloat32(col, img []float32, c, h, w, kh, kw, hOut, wOut, stride, padding int) {
	for i := range col {
		col[i] = 0
	}

	row := 0
	for ch := 0; ch < c; ch++ {
		for ky := 0; ky < kh; ky++ {
			for kx := 0; kx < kw; kx++ {
				dst := col[row*hOut*wOut:]
				for oy := 0; oy < hOut; oy++ {
					iy := oy*stride + ky - padding
					if iy < 0 || iy >= h {
						continue
					}
					for ox := 0; ox < wOut; ox++ {
						ix := ox*stride + kx - padding
						if ix < 0 || ix >= w {
							continue
						}
						dst[oy*wOut+ox] = img[ch*h*w+iy*w+ix]
					}
				}
				row++
			}
		}
	}
}
