package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gammakit/gammakit/internal/background"
	"github.com/gammakit/gammakit/internal/catalog"
	"github.com/gammakit/gammakit/internal/config"
)

// AcceptanceOptions holds flags for the acceptance command.
type AcceptanceOptions struct {
	*RootOptions
	Database string
	Config   string
}

// NewAcceptanceCommand creates the acceptance command.
func NewAcceptanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AcceptanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "acceptance",
		Short: "Build a background model and its acceptance curve",
		Long: `Fill an energy-offset background model from every observation in the
catalog, compute background rates, and integrate them over the configured
energy band into a radial acceptance curve.

The analysis configuration must carry an 'acceptance' section.

Example:
  gammakit acceptance --db ./crab.db --config analysis.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAcceptance(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to analysis configuration (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// acceptanceResult is the acceptance command's output payload.
type acceptanceResult struct {
	Observations int       `json:"observations"`
	Events       int       `json:"events"`
	Skipped      int       `json:"skipped"`
	EMin         float64   `json:"emin_tev"`
	EMax         float64   `json:"emax_tev"`
	Offset       []float64 `json:"offset_deg"`
	Acceptance   []float64 `json:"acceptance_per_s"`
}

// String renders the text-format output.
func (r acceptanceResult) String() string {
	p := message.NewPrinter(language.English)
	lines := []string{
		p.Sprintf("Filled %d observations, %d events (%d outside axes)", r.Observations, r.Events, r.Skipped),
		fmt.Sprintf("Acceptance curve [%g, %g] TeV:", r.EMin, r.EMax),
	}
	for o, acc := range r.Acceptance {
		lines = append(lines, fmt.Sprintf("  %g deg: %g /s", r.Offset[o], acc))
	}
	return strings.Join(lines, "\n")
}

func runAcceptance(opts *AcceptanceOptions, cmd *cobra.Command) error {
	log := opts.Logger()

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if cfg.Acceptance == nil {
		return WrapExitError(ExitCommandError, "configuration has no acceptance section", nil)
	}
	energy, err := cfg.EnergyAxis()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid energy binning", err)
	}
	offset, err := cfg.OffsetAxis()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid offset binning", err)
	}

	store, err := catalog.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing catalog")
		}
	}()

	ctx := cmd.Context()
	obs, err := store.ListObservations(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list observations", err)
	}
	if len(obs) == 0 {
		return WrapExitError(ExitFailure, "catalog has no observations", nil)
	}

	model := background.New(energy, offset, log)
	result := acceptanceResult{
		Observations: len(obs),
		EMin:         cfg.Acceptance.EMin,
		EMax:         cfg.Acceptance.EMax,
	}
	for _, o := range obs {
		events, err := store.Events(ctx, o.ObsID)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to read events of observation %d", o.ObsID), err)
		}
		stats := model.Fill(o, events)
		result.Events += stats.Filled
		result.Skipped += stats.Skipped
	}

	model.ComputeRate()
	curve, err := model.AcceptanceCurve(cfg.Acceptance.EMin, cfg.Acceptance.EMax, cfg.Acceptance.Bins)
	if err != nil {
		return WrapExitError(ExitFailure, "acceptance curve failed", err)
	}
	result.Offset = curve.Offset
	result.Acceptance = curve.Acceptance

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}
