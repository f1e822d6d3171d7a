package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gammakit/gammakit/internal/catalog"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <data.yaml>",
		Short: "Import observations and events into a catalog",
		Long: `Load observation metadata and event lists from a YAML file into the
SQLite observation catalog, creating the catalog if it doesn't exist.

Example:
  gammakit import --db ./crab.db runs.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// importResult is the import command's output payload.
type importResult struct {
	Batch        string `json:"batch,omitempty"`
	Observations int    `json:"observations"`
	Events       int    `json:"events"`
}

// String renders the text-format output.
func (r importResult) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("Imported %d observations and %d events (batch %s)", r.Observations, r.Events, r.Batch)
}

func runImport(opts *ImportOptions, inputPath string, cmd *cobra.Command) error {
	log := opts.Logger()

	in, err := LoadImportInput(inputPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load import input", err)
	}
	obs, events := in.CatalogRows()

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
	result := importResult{Observations: len(obs), Events: len(events)}

	if len(obs) > 0 {
		result.Batch, err = store.ImportObservations(ctx, obs)
		if err != nil {
			return WrapExitError(ExitFailure, "importing observations failed", err)
		}
		log.Debug().Str("batch", result.Batch).Int("observations", len(obs)).Msg("observations imported")
	}
	if len(events) > 0 {
		if err := store.ImportEvents(ctx, events); err != nil {
			return WrapExitError(ExitFailure, "importing events failed", err)
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}
