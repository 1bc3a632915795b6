package snn

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// ParseSpec decodes a YAML specification tree into a ListGen.
//
// The format mirrors the in-code tree one to one: a YAML sequence is a
// ListGen, a bare string names a parameterless descriptor (pass, norm,
// lif, tap) and a single-key mapping names a parameterized one:
//
//	- conv: {out: 64, kernel: 3, stride: 1}
//	- pool: {kind: max, kernel: 2, stride: 2}
//	- lif:  {tau_syn_inv: 200, tau_mem_inv: 100}
//
// Nested sequences become nested trees, so parallel branches are written
// as sequences of sequences.
func ParseSpec[B tensor.Backend](data []byte) (ListGen[B], error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse spec")
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("parse spec: empty document")
	}
	cfg, err := parseList[B](doc.Content[0])
	if err != nil {
		return nil, errors.Wrap(err, "parse spec")
	}
	return cfg, nil
}

func parseList[B tensor.Backend](n *yaml.Node) (ListGen[B], error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("line %d: expected a sequence, got %s", n.Line, yamlKind(n.Kind))
	}
	cfg := make(ListGen[B], 0, len(n.Content))
	for _, item := range n.Content {
		u, err := parseUnit[B](item)
		if err != nil {
			return nil, err
		}
		cfg = append(cfg, u)
	}
	return cfg, nil
}

func parseUnit[B tensor.Backend](n *yaml.Node) (Unit[B], error) {
	switch n.Kind {
	case yaml.SequenceNode:
		return parseList[B](n)
	case yaml.ScalarNode:
		return parseScalarUnit[B](n)
	case yaml.MappingNode:
		return parseMappingUnit[B](n)
	default:
		return nil, errors.Errorf("line %d: unexpected %s", n.Line, yamlKind(n.Kind))
	}
}

func parseScalarUnit[B tensor.Backend](n *yaml.Node) (Unit[B], error) {
	switch n.Value {
	case "pass":
		return Pass[B]{}, nil
	case "norm":
		return Norm[B]{}, nil
	case "lif":
		return LIF[B]{}, nil
	case "tap":
		return Tap[B]{}, nil
	default:
		return nil, errors.Errorf("line %d: unknown layer %q (valid: pass, norm, lif, tap, conv, pool)", n.Line, n.Value)
	}
}

func parseMappingUnit[B tensor.Backend](n *yaml.Node) (Unit[B], error) {
	if len(n.Content) != 2 {
		return nil, errors.Errorf("line %d: a layer mapping must have exactly one key", n.Line)
	}
	key, body := n.Content[0], n.Content[1]

	switch key.Value {
	case "conv":
		var args struct {
			Out    int `yaml:"out"`
			Kernel int `yaml:"kernel"`
			Stride int `yaml:"stride"`
		}
		if err := body.Decode(&args); err != nil {
			return nil, errors.Wrapf(err, "line %d: conv", key.Line)
		}
		return Conv[B]{Out: args.Out, Kernel: args.Kernel, Stride: args.Stride}, nil

	case "pool":
		var args struct {
			Kind   string `yaml:"kind"`
			Kernel int    `yaml:"kernel"`
			Stride int    `yaml:"stride"`
		}
		if err := body.Decode(&args); err != nil {
			return nil, errors.Wrapf(err, "line %d: pool", key.Line)
		}
		return Pool[B]{Kind: PoolKind(args.Kind), Kernel: args.Kernel, Stride: args.Stride}, nil

	case "lif":
		var args struct {
			TauSynInv  *float32 `yaml:"tau_syn_inv"`
			TauMemInv  *float32 `yaml:"tau_mem_inv"`
			VThreshold *float32 `yaml:"v_threshold"`
			VReset     *float32 `yaml:"v_reset"`
			DT         *float32 `yaml:"dt"`
		}
		if err := body.Decode(&args); err != nil {
			return nil, errors.Wrapf(err, "line %d: lif", key.Line)
		}
		cfg := nn.DefaultLIFConfig()
		if args.TauSynInv != nil {
			cfg.TauSynInv = *args.TauSynInv
		}
		if args.TauMemInv != nil {
			cfg.TauMemInv = *args.TauMemInv
		}
		if args.VThreshold != nil {
			cfg.VThreshold = *args.VThreshold
		}
		if args.VReset != nil {
			cfg.VReset = *args.VReset
		}
		if args.DT != nil {
			cfg.DT = *args.DT
		}
		return LIF[B]{Config: &cfg}, nil

	default:
		return nil, errors.Errorf("line %d: unknown layer %q (valid: pass, norm, lif, tap, conv, pool)", key.Line, key.Value)
	}
}

func yamlKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
