package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gammakit/gammakit/internal/config"
	"github.com/gammakit/gammakit/internal/detect"
)

// DetectOptions holds flags for the detect command.
type DetectOptions struct {
	*RootOptions
	Binary string
	Config string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DetectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "detect <image>",
		Short: "Run the external source-detection binary on an image",
		Long: `Run the configured source-detection binary against an image and print
the detected sources. The binary itself is an external dependency; use
--binary or the 'detect' section of the analysis configuration to pick it.

Example:
  gammakit detect counts.fits
  gammakit detect --binary /opt/sextractor/bin/sex counts.fits`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Binary, "binary", "sex", "source-detection binary")
	cmd.Flags().StringVar(&opts.Config, "config", "", "analysis configuration with a detect section")

	return cmd
}

// detectResult is the detect command's output payload.
type detectResult struct {
	Image   string          `json:"image"`
	Sources []detect.Source `json:"sources"`
}

// String renders the text-format output.
func (r detectResult) String() string {
	lines := []string{fmt.Sprintf("Detected %d sources in %s", len(r.Sources), r.Image)}
	for _, s := range r.Sources {
		lines = append(lines, fmt.Sprintf("  x=%g y=%g flux=%g", s.X, s.Y, s.Flux))
	}
	return strings.Join(lines, "\n")
}

func runDetect(opts *DetectOptions, imagePath string, cmd *cobra.Command) error {
	runner := &detect.Runner{Binary: opts.Binary, Log: opts.Logger()}

	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		if cfg.Detect != nil {
			runner.Binary = cfg.Detect.Binary
			runner.Args = cfg.Detect.Args
		}
	}

	cat, err := runner.Run(cmd.Context(), imagePath)
	if err != nil {
		return WrapExitError(ExitFailure, "source detection failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(detectResult{Image: imagePath, Sources: cat.Sources})
}
