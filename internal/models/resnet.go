// Package models provides ready-made spiking network architectures built
// from specification trees: residual and VGG style backbones, a rate-coded
// classifier head and a multi-scale feature extractor.
package models

import (
	"k8s.io/klog/v2"

	"github.com/spikenet-ml/spikenet/internal/snn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// basicBlock is the two-convolution residual block: the main path and the
// shortcut are parallel branches summed before a spiking nonlinearity.
func basicBlock[B tensor.Backend](out, stride int) snn.ListGen[B] {
	main := snn.ListGen[B]{
		snn.Conv[B]{Out: out, Kernel: 3, Stride: stride},
		snn.Norm[B]{},
		snn.LIF[B]{},
		snn.Conv[B]{Out: out, Kernel: 3},
		snn.Norm[B]{},
	}
	shortcut := snn.ListGen[B]{}
	if stride != 1 {
		shortcut = snn.ListGen[B]{
			snn.Conv[B]{Out: out, Kernel: 1, Stride: stride},
			snn.Norm[B]{},
		}
	}
	return snn.ListGen[B]{
		snn.ListGen[B]{main, shortcut},
		snn.LIF[B]{},
	}
}

// bottleneckBlock is the three-convolution residual block used by the
// deeper variants: 1x1 reduce, 3x3, 1x1 expand to out*4 channels.
func bottleneckBlock[B tensor.Backend](out, stride int, project bool) snn.ListGen[B] {
	const expansion = 4
	main := snn.ListGen[B]{
		snn.Conv[B]{Out: out, Kernel: 1},
		snn.Norm[B]{},
		snn.LIF[B]{},
		snn.Conv[B]{Out: out, Kernel: 3, Stride: stride},
		snn.Norm[B]{},
		snn.LIF[B]{},
		snn.Conv[B]{Out: out * expansion, Kernel: 1},
		snn.Norm[B]{},
	}
	shortcut := snn.ListGen[B]{}
	if project {
		shortcut = snn.ListGen[B]{
			snn.Conv[B]{Out: out * expansion, Kernel: 1, Stride: stride},
			snn.Norm[B]{},
		}
	}
	return snn.ListGen[B]{
		snn.ListGen[B]{main, shortcut},
		snn.LIF[B]{},
	}
}

// stage appends count residual blocks, downsampling in the first one.
func stage[B tensor.Backend](cfg snn.ListGen[B], out, count, stride int, bottleneck bool) snn.ListGen[B] {
	for i := 0; i < count; i++ {
		s := 1
		if i == 0 {
			s = stride
		}
		if bottleneck {
			// The first block of every bottleneck stage changes the channel
			// count, so its shortcut always projects.
			cfg = append(cfg, bottleneckBlock[B](out, s, i == 0)...)
		} else {
			cfg = append(cfg, basicBlock[B](out, s)...)
		}
	}
	return cfg
}

// resNetStem is the shared entry of all residual variants: a wide strided
// convolution followed by sum pooling.
func resNetStem[B tensor.Backend]() snn.ListGen[B] {
	return snn.ListGen[B]{
		snn.Conv[B]{Out: 64, Kernel: 7, Stride: 2},
		snn.Norm[B]{},
		snn.LIF[B]{},
		snn.Pool[B]{Kind: snn.PoolSum, Kernel: 2, Stride: 2},
	}
}

// resNet assembles a residual backbone from per-stage block counts.
func resNet[B tensor.Backend](counts [4]int, bottleneck bool) snn.ListGen[B] {
	cfg := resNetStem[B]()
	cfg = stage(cfg, 64, counts[0], 1, bottleneck)
	cfg = stage(cfg, 128, counts[1], 2, bottleneck)
	cfg = stage(cfg, 256, counts[2], 2, bottleneck)
	cfg = stage(cfg, 512, counts[3], 2, bottleneck)
	return cfg
}

// ResNet18 returns the 18-layer residual backbone tree.
func ResNet18[B tensor.Backend]() snn.ListGen[B] {
	return resNet[B]([4]int{2, 2, 2, 2}, false)
}

// ResNet34 returns the 34-layer residual backbone tree.
func ResNet34[B tensor.Backend]() snn.ListGen[B] {
	return resNet[B]([4]int{3, 4, 6, 3}, false)
}

// ResNet50 returns the 50-layer bottleneck residual backbone tree.
func ResNet50[B tensor.Backend]() snn.ListGen[B] {
	return resNet[B]([4]int{3, 4, 6, 3}, true)
}

// DefaultRegistry returns a registry with every built-in backbone.
func DefaultRegistry[B tensor.Backend]() *snn.Registry[B] {
	r := snn.NewRegistry[B]()
	r.Register("resnet18", ResNet18[B]())
	r.Register("resnet34", ResNet34[B]())
	r.Register("resnet50", ResNet50[B]())
	r.Register("vgg11", VGG11[B]())
	r.Register("vgg16", VGG16[B]())
	klog.V(2).Infof("registered %d built-in backbones", len(r.Names()))
	return r
}
