package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/gammakit/gammakit/internal/axis"
)

//go:embed schema.cue
var schemaCUE string

// Binning describes one axis of the analysis.
type Binning struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Bins int     `json:"bins" yaml:"bins"`
}

// Band is the energy band the acceptance curve integrates over.
type Band struct {
	EMin float64 `json:"emin" yaml:"emin"`
	EMax float64 `json:"emax" yaml:"emax"`
	Bins int     `json:"bins" yaml:"bins"`
}

// Detect configures the external source-detection binary.
type Detect struct {
	Binary string   `json:"binary" yaml:"binary"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Analysis is a validated analysis configuration.
type Analysis struct {
	Energy     Binning `json:"energy" yaml:"energy"`
	Offset     Binning `json:"offset" yaml:"offset"`
	Acceptance *Band   `json:"acceptance,omitempty" yaml:"acceptance,omitempty"`
	Detect     *Detect `json:"detect,omitempty" yaml:"detect,omitempty"`
}

// Default returns the stock Crab-field configuration: 100 log bins from
// 0.1 to 100 TeV and 100 linear offset bins from 0 to 2.5 deg.
func Default() *Analysis {
	return &Analysis{
		Energy: Binning{Min: 0.1, Max: 100, Bins: 100},
		Offset: Binning{Min: 0, Max: 2.5, Bins: 100},
	}
}

// Load reads a YAML analysis configuration from path and validates it
// against the embedded CUE schema.
func Load(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML analysis configuration.
func Parse(data []byte) (*Analysis, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty configuration")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Analysis"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("lookup schema definition: %w", err)
	}

	val := def.Unify(ctx.Encode(raw))
	if err := val.Validate(cue.Concrete(true)); err != nil {
		// Collect every violation, with positions when CUE has them.
		return nil, fmt.Errorf("invalid configuration:\n%s", cueerrors.Details(err, nil))
	}

	var cfg Analysis
	if err := val.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	return &cfg, nil
}

// EnergyAxis builds the log-spaced energy axis of the analysis.
func (a *Analysis) EnergyAxis() (*axis.Axis, error) {
	return axis.EqualLogSpacing(a.Energy.Min, a.Energy.Max, a.Energy.Bins)
}

// OffsetAxis builds the linear offset axis of the analysis.
func (a *Analysis) OffsetAxis() (*axis.Axis, error) {
	return axis.Linear(a.Offset.Min, a.Offset.Max, a.Offset.Bins)
}
