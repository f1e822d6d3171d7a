package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gammakit/gammakit/internal/irf"
)

// NewStackCommand creates the stack command.
func NewStackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack <input.yaml>",
		Short: "Stack instrument response functions",
		Long: `Compute the exposure-weighted mean effective area and mean energy
dispersion over a set of observations.

The input file carries the shared energy binning and one record per
observation (effective area, livetime, optional dispersion matrix and safe
energy thresholds).

Example:
  gammakit stack runs.yaml
  gammakit stack runs.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStack(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

// stackResult is the stack command's output payload.
type stackResult struct {
	Observations    int         `json:"observations"`
	TotalLivetime   float64     `json:"total_livetime_s"`
	EnergyTrueEdges []float64   `json:"energy_true_edges"`
	EffectiveArea   []float64   `json:"effective_area_cm2"`
	EnergyRecoEdges []float64   `json:"energy_reco_edges,omitempty"`
	Dispersion      [][]float64 `json:"dispersion,omitempty"`
}

// String renders the text-format output.
func (r stackResult) String() string {
	lines := []string{
		fmt.Sprintf("Stacked %d observations, total livetime %g s", r.Observations, r.TotalLivetime),
		"Effective area (cm2):",
	}
	for l, a := range r.EffectiveArea {
		lines = append(lines, fmt.Sprintf("  [%g, %g) TeV: %g", r.EnergyTrueEdges[l], r.EnergyTrueEdges[l+1], a))
	}
	if r.Dispersion != nil {
		lines = append(lines, fmt.Sprintf("Energy dispersion: %d true-energy x %d reco-energy bins",
			len(r.Dispersion), len(r.EnergyRecoEdges)-1))
	}
	return strings.Join(lines, "\n")
}

func runStack(opts *RootOptions, inputPath string, cmd *cobra.Command) error {
	in, err := LoadStackInput(inputPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load stack input", err)
	}
	obs, err := in.Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid stack input", err)
	}

	stacker, err := irf.NewStacker(obs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid stack input", err)
	}

	aeff, err := stacker.StackEffectiveArea()
	if err != nil {
		return WrapExitError(ExitFailure, "stacking effective area failed", err)
	}

	result := stackResult{
		Observations:    stacker.NObs(),
		TotalLivetime:   stacker.TotalLivetime(),
		EnergyTrueEdges: aeff.Energy.Edges(),
		EffectiveArea:   aeff.Area,
	}

	if obs[0].Edisp != nil {
		edisp, err := stacker.StackEnergyDispersion()
		if err != nil {
			return WrapExitError(ExitFailure, "stacking energy dispersion failed", err)
		}
		result.EnergyRecoEdges = edisp.EReco.Edges()
		result.Dispersion = edisp.PDF
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}
