package nn

import (
	"fmt"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Conv2D is a 2D convolutional layer.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel, kernel]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel) / stride + 1
//	out_w = (width + 2*padding - kernel) / stride + 1
//
// Spiking backbones use bias-free convolutions; the following normalization
// and neuron layers make a bias redundant.
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	useBias     bool

	weight *Parameter[B] // [out_channels, in_channels, kernel, kernel]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv2D creates a new 2D convolutional layer with Kaiming initialization.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize, stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	weightShape := tensor.Shape{outChannels, inChannels, kernelSize, kernelSize}
	fanOut := outChannels * kernelSize * kernelSize
	weight := KaimingNormal(fanOut, weightShape, backend)

	c := &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		useBias:     useBias,
		weight:      NewParameter("weight", weight),
		backend:     backend,
	}
	if useBias {
		c.bias = NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))
	}
	return c
}

// Forward performs the forward pass.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if inputShape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape[1], c.inChannels))
	}

	outputRaw := c.backend.Conv2D(
		input.Raw(),
		c.weight.Tensor().Raw(),
		c.stride,
		c.padding,
	)
	output := tensor.New(outputRaw, c.backend)

	if c.useBias {
		// Broadcast bias [out_channels] over [batch, out_channels, h, w].
		shape := output.Shape()
		data := output.Data()
		biasData := c.bias.Tensor().Data()
		plane := shape[2] * shape[3]
		for img := 0; img < shape[0]*shape[1]; img++ {
			b := biasData[img%shape[1]]
			for i := img * plane; i < (img+1)*plane; i++ {
				data[i] += b
			}
		}
	}

	return output
}

// Parameters returns all trainable parameters.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.useBias {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// StateDict returns a map of parameter names to raw tensors.
func (c *Conv2D[B]) StateDict() map[string]*tensor.RawTensor {
	sd := map[string]*tensor.RawTensor{
		"weight": c.weight.Tensor().Raw(),
	}
	if c.useBias {
		sd["bias"] = c.bias.Tensor().Raw()
	}
	return sd
}

// LoadStateDict loads parameters from a state dictionary.
func (c *Conv2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := loadParam(stateDict, "weight", c.weight); err != nil {
		return err
	}
	if c.useBias {
		return loadParam(stateDict, "bias", c.bias)
	}
	return nil
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.outChannels
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// String returns a string representation of the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, out_channels=%d, kernel_size=%d, stride=%d, padding=%d, bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding, c.useBias)
}
