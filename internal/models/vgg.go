package models

import (
	"github.com/spikenet-ml/spikenet/internal/snn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// vggPool marks a downsampling position in a VGG layout.
const vggPool = -1

// vgg expands a layout of channel counts and pool markers into a tree.
// Every convolution is followed by a norm and a spiking nonlinearity.
func vgg[B tensor.Backend](layout []int) snn.ListGen[B] {
	var cfg snn.ListGen[B]
	for _, out := range layout {
		if out == vggPool {
			cfg = append(cfg, snn.Pool[B]{Kind: snn.PoolSum, Kernel: 2, Stride: 2})
			continue
		}
		cfg = append(cfg,
			snn.Conv[B]{Out: out, Kernel: 3},
			snn.Norm[B]{},
			snn.LIF[B]{},
		)
	}
	return cfg
}

// VGG11 returns the 11-layer plain convolutional backbone tree.
func VGG11[B tensor.Backend]() snn.ListGen[B] {
	return vgg[B]([]int{
		64, vggPool,
		128, vggPool,
		256, 256, vggPool,
		512, 512, vggPool,
		512, 512, vggPool,
	})
}

// VGG16 returns the 16-layer plain convolutional backbone tree.
func VGG16[B tensor.Backend]() snn.ListGen[B] {
	return vgg[B]([]int{
		64, 64, vggPool,
		128, 128, vggPool,
		256, 256, 256, vggPool,
		512, 512, 512, vggPool,
		512, 512, 512, vggPool,
	})
}
