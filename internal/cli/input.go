package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gammakit/gammakit/internal/axis"
	"github.com/gammakit/gammakit/internal/catalog"
	"github.com/gammakit/gammakit/internal/irf"
)

// StackInput is the YAML document the stack command consumes: shared energy
// binning plus one record per observation.
type StackInput struct {
	EnergyTrueEdges []float64          `yaml:"energy_true_edges"`
	EnergyRecoEdges []float64          `yaml:"energy_reco_edges"`
	Observations    []StackObservation `yaml:"observations"`
}

// StackObservation is one observation's response functions in a StackInput.
type StackObservation struct {
	Livetime      float64     `yaml:"livetime"`
	LowThreshold  float64     `yaml:"low_threshold"`
	HighThreshold float64     `yaml:"high_threshold"`
	EffectiveArea []float64   `yaml:"effective_area"`
	Dispersion    [][]float64 `yaml:"dispersion,omitempty"`
}

// LoadStackInput reads and decodes a stack input file.
func LoadStackInput(path string) (*StackInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stack input: %w", err)
	}
	var in StackInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode stack input: %w", err)
	}
	if len(in.Observations) == 0 {
		return nil, fmt.Errorf("stack input has no observations")
	}
	return &in, nil
}

// Build converts the document into irf observations. Dispersion matrices are
// optional but must be given either for every observation or for none.
func (in *StackInput) Build() ([]irf.Observation, error) {
	etrue, err := axis.FromEdges(in.EnergyTrueEdges)
	if err != nil {
		return nil, fmt.Errorf("energy_true_edges: %w", err)
	}

	withDispersion := 0
	for _, o := range in.Observations {
		if o.Dispersion != nil {
			withDispersion++
		}
	}
	if withDispersion > 0 && withDispersion != len(in.Observations) {
		return nil, fmt.Errorf("dispersion given for %d of %d observations: all or none", withDispersion, len(in.Observations))
	}

	var ereco *axis.Axis
	if withDispersion > 0 {
		ereco, err = axis.FromEdges(in.EnergyRecoEdges)
		if err != nil {
			return nil, fmt.Errorf("energy_reco_edges: %w", err)
		}
	}

	obs := make([]irf.Observation, 0, len(in.Observations))
	for i, o := range in.Observations {
		aeff, err := irf.NewEffectiveArea(etrue, o.EffectiveArea)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		rec := irf.Observation{
			Aeff:          aeff,
			Livetime:      o.Livetime,
			LowThreshold:  o.LowThreshold,
			HighThreshold: o.HighThreshold,
		}
		if o.Dispersion != nil {
			rec.Edisp, err = irf.NewEnergyDispersion(etrue, ereco, o.Dispersion)
			if err != nil {
				return nil, fmt.Errorf("observation %d: %w", i, err)
			}
		}
		obs = append(obs, rec)
	}
	return obs, nil
}

// ImportInput is the YAML document the import command consumes.
type ImportInput struct {
	Observations []ImportObservation `yaml:"observations"`
	Events       []ImportEvent       `yaml:"events"`
}

// ImportObservation is one observation row in an ImportInput.
type ImportObservation struct {
	ObsID         int64   `yaml:"obs_id"`
	RA            float64 `yaml:"ra"`
	Dec           float64 `yaml:"dec"`
	Livetime      float64 `yaml:"livetime"`
	LowThreshold  float64 `yaml:"low_threshold"`
	HighThreshold float64 `yaml:"high_threshold"`
}

// ImportEvent is one event row in an ImportInput.
type ImportEvent struct {
	ObsID  int64   `yaml:"obs_id"`
	Energy float64 `yaml:"energy"`
	Offset float64 `yaml:"offset"`
}

// LoadImportInput reads and decodes an import file.
func LoadImportInput(path string) (*ImportInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import input: %w", err)
	}
	var in ImportInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode import input: %w", err)
	}
	if len(in.Observations) == 0 && len(in.Events) == 0 {
		return nil, fmt.Errorf("import input is empty")
	}
	return &in, nil
}

// CatalogRows converts the document into catalog rows.
func (in *ImportInput) CatalogRows() ([]catalog.Observation, []catalog.Event) {
	obs := make([]catalog.Observation, len(in.Observations))
	for i, o := range in.Observations {
		obs[i] = catalog.Observation{
			ObsID:         o.ObsID,
			RA:            o.RA,
			Dec:           o.Dec,
			Livetime:      o.Livetime,
			LowThreshold:  o.LowThreshold,
			HighThreshold: o.HighThreshold,
		}
	}
	events := make([]catalog.Event, len(in.Events))
	for i, e := range in.Events {
		events[i] = catalog.Event{ObsID: e.ObsID, Energy: e.Energy, Offset: e.Offset}
	}
	return obs, events
}
