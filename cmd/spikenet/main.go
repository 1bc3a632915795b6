// Package main provides the SpikeNet CLI: inspect and run spiking network
// backbones from built-in presets or YAML specification files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/spikenet-ml/spikenet/backend/cpu"
	"github.com/spikenet-ml/spikenet/models"
	"github.com/spikenet-ml/spikenet/nn"
	"github.com/spikenet-ml/spikenet/snn"
	"github.com/spikenet-ml/spikenet/tensor"
)

const version = "v0.1.0-dev"

type backend = *cpu.Backend

var (
	flagPreset     string
	flagSpecFile   string
	flagInChannels int
	flagImageSize  int
	flagSteps      int
	flagBatch      int
	flagCheckpoint string
)

func main() {
	root := &cobra.Command{
		Use:          "spikenet",
		Short:        "Compile and run spiking neural network backbones",
		Version:      version,
		SilenceUsage: true,
	}

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(newListCmd(), newDescribeCmd(), newRunCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPreset, "preset", "", "built-in backbone name")
	cmd.Flags().StringVar(&flagSpecFile, "spec", "", "YAML specification file")
	cmd.Flags().IntVar(&flagInChannels, "channels", 3, "input channel count")
}

// loadModel compiles the backbone named by --preset or --spec.
func loadModel() (*snn.ModelGen[backend], error) {
	be := cpu.New()
	switch {
	case flagPreset != "" && flagSpecFile != "":
		return nil, fmt.Errorf("--preset and --spec are mutually exclusive")
	case flagPreset != "":
		return snn.NewModelGenFromRegistry(be, flagInChannels, models.DefaultRegistry[backend](), flagPreset)
	case flagSpecFile != "":
		data, err := os.ReadFile(flagSpecFile)
		if err != nil {
			return nil, err
		}
		cfg, err := snn.ParseSpec[backend](data)
		if err != nil {
			return nil, err
		}
		return snn.NewModelGen(be, flagInChannels, cfg)
	default:
		return nil, fmt.Errorf("one of --preset or --spec is required")
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in backbone presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range models.DefaultRegistry[backend]().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Compile a backbone and print its topology",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel()
			if err != nil {
				return err
			}

			params := 0
			for _, p := range model.Parameters() {
				params += p.Tensor().NumElements()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "channels:   %d -> %d\n", model.InChannels(), model.OutChannels())
			fmt.Fprintf(out, "parameters: %s\n", humanize.Comma(int64(params)))
			fmt.Fprintf(out, "taps:       %d\n", len(model.Taps()))

			mask := model.Block().Mask()[0]
			stateful := 0
			for _, m := range mask {
				if m {
					stateful++
				}
			}
			fmt.Fprintf(out, "layers:     %d (%d stateful)\n", len(mask), stateful)
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backbone on random input and report spike activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel()
			if err != nil {
				return err
			}
			if flagCheckpoint != "" {
				if err := loadCheckpoint(model, flagCheckpoint); err != nil {
					return err
				}
			}

			be := cpu.New()
			shape := tensor.Shape{flagBatch, flagInChannels, flagImageSize, flagImageSize}
			bar := progressbar.Default(int64(flagSteps), "stepping")

			var state snn.State[backend]
			var out *tensor.Tensor[backend]
			total := float32(0)
			for t := 0; t < flagSteps; t++ {
				x := tensor.Rand[backend](shape, be)
				out, state = model.Step(x, state)
				total += out.Sum()
				_ = bar.Add(1)
			}

			perStep := total / float32(flagSteps)
			perUnit := perStep / float32(out.NumElements())
			fmt.Fprintf(cmd.OutOrStdout(), "output shape:    %v\n", out.Shape())
			fmt.Fprintf(cmd.OutOrStdout(), "spikes per step: %s\n", humanize.CommafWithDigits(float64(perStep), 1))
			fmt.Fprintf(cmd.OutOrStdout(), "firing rate:     %.4f\n", perUnit)
			return nil
		},
	}
	addModelFlags(cmd)
	cmd.Flags().IntVar(&flagImageSize, "size", 64, "input height and width")
	cmd.Flags().IntVar(&flagSteps, "steps", 16, "time steps to present")
	cmd.Flags().IntVar(&flagBatch, "batch", 1, "batch size")
	cmd.Flags().StringVar(&flagCheckpoint, "load", "", "checkpoint file to load")
	return cmd
}

func loadCheckpoint(model *snn.ModelGen[backend], path string) error {
	klog.V(1).Infof("loading checkpoint %s", path)
	return nn.Load[backend](path, model)
}
