package nn

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// noParams is embedded by layers without trainable parameters.
type noParams[B tensor.Backend] struct{}

func (noParams[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

func (noParams[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

func (noParams[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// AvgPool2D is a 2D average pooling layer.
type AvgPool2D[B tensor.Backend] struct {
	noParams[B]
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *AvgPool2D[B] {
	validatePool("avgpool2d", kernelSize, stride, padding)
	return &AvgPool2D[B]{kernelSize: kernelSize, stride: stride, padding: padding, backend: backend}
}

// Forward performs the forward pass.
func (p *AvgPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(p.backend.AvgPool2D(input.Raw(), p.kernelSize, p.stride, p.padding), p.backend)
}

// String returns a string representation of the layer.
func (p *AvgPool2D[B]) String() string {
	return fmt.Sprintf("AvgPool2D(kernel_size=%d, stride=%d, padding=%d)", p.kernelSize, p.stride, p.padding)
}

// MaxPool2D is a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] struct {
	noParams[B]
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool2D[B] {
	validatePool("maxpool2d", kernelSize, stride, padding)
	return &MaxPool2D[B]{kernelSize: kernelSize, stride: stride, padding: padding, backend: backend}
}

// Forward performs the forward pass.
func (p *MaxPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(p.backend.MaxPool2D(input.Raw(), p.kernelSize, p.stride, p.padding), p.backend)
}

// String returns a string representation of the layer.
func (p *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d, padding=%d)", p.kernelSize, p.stride, p.padding)
}

// SumPool2D sums each pooling window: average pooling rescaled by the kernel
// area. Summing preserves spike counts where averaging would dilute them.
type SumPool2D[B tensor.Backend] struct {
	noParams[B]
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewSumPool2D creates a new 2D sum pooling layer.
func NewSumPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *SumPool2D[B] {
	validatePool("sumpool2d", kernelSize, stride, padding)
	return &SumPool2D[B]{kernelSize: kernelSize, stride: stride, padding: padding, backend: backend}
}

// Forward performs the forward pass.
func (p *SumPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	avg := p.backend.AvgPool2D(input.Raw(), p.kernelSize, p.stride, p.padding)
	sum := p.backend.MulScalar(avg, float32(p.kernelSize*p.kernelSize))
	return tensor.New(sum, p.backend)
}

// String returns a string representation of the layer.
func (p *SumPool2D[B]) String() string {
	return fmt.Sprintf("SumPool2D(kernel_size=%d, stride=%d, padding=%d)", p.kernelSize, p.stride, p.padding)
}

// AdaptiveAvgPool2D pools each channel down to a fixed output size,
// independent of the input's spatial dimensions.
type AdaptiveAvgPool2D[B tensor.Backend] struct {
	noParams[B]
	outH    int
	outW    int
	backend B
}

// NewAdaptiveAvgPool2D creates a new adaptive average pooling layer.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptiveavgpool2d: invalid output size %dx%d", outH, outW))
	}
	return &AdaptiveAvgPool2D[B]{outH: outH, outW: outW, backend: backend}
}

// Forward performs the forward pass.
func (p *AdaptiveAvgPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(p.backend.AdaptiveAvgPool2D(input.Raw(), p.outH, p.outW), p.backend)
}

// String returns a string representation of the layer.
func (p *AdaptiveAvgPool2D[B]) String() string {
	return fmt.Sprintf("AdaptiveAvgPool2D(output_size=(%d, %d))", p.outH, p.outW)
}

func validatePool(op string, kernelSize, stride, padding int) {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("%s: invalid kernel size %d", op, kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("%s: invalid stride %d", op, stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("%s: invalid padding %d", op, padding))
	}
}
