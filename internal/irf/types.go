package irf

import (
	"fmt"

	"github.com/gammakit/gammakit/internal/axis"
)

// EffectiveArea is an instrument sensitivity curve: an equivalent collecting
// area in cm² per true-energy bin. Immutable once constructed.
type EffectiveArea struct {
	Energy *axis.Axis
	Area   []float64
}

// NewEffectiveArea creates an effective-area curve. The area slice must have
// one entry per energy bin.
func NewEffectiveArea(energy *axis.Axis, area []float64) (*EffectiveArea, error) {
	if energy == nil {
		return nil, fmt.Errorf("effective area needs an energy axis")
	}
	if len(area) != energy.NBins() {
		return nil, fmt.Errorf("effective area needs %d values, got %d", energy.NBins(), len(area))
	}
	return &EffectiveArea{Energy: energy, Area: area}, nil
}

// EnergyDispersion is the instrument's energy resolution response:
// PDF[l][k] is the probability density of reconstructing energy bin k for an
// event of true-energy bin l. Immutable once constructed.
type EnergyDispersion struct {
	ETrue *axis.Axis
	EReco *axis.Axis
	PDF   [][]float64
}

// NewEnergyDispersion creates a dispersion matrix. PDF must be shaped
// [ETrue.NBins()][EReco.NBins()].
func NewEnergyDispersion(etrue, ereco *axis.Axis, pdf [][]float64) (*EnergyDispersion, error) {
	if etrue == nil || ereco == nil {
		return nil, fmt.Errorf("energy dispersion needs true and reco energy axes")
	}
	if len(pdf) != etrue.NBins() {
		return nil, fmt.Errorf("energy dispersion needs %d rows, got %d", etrue.NBins(), len(pdf))
	}
	for l, row := range pdf {
		if len(row) != ereco.NBins() {
			return nil, fmt.Errorf("energy dispersion row %d needs %d columns, got %d", l, ereco.NBins(), len(row))
		}
	}
	return &EnergyDispersion{ETrue: etrue, EReco: ereco, PDF: pdf}, nil
}

// Observation bundles the per-run inputs to stacking: the response functions,
// the exposure used as stacking weight, and the safe reconstructed-energy
// range [LowThreshold, HighThreshold) in TeV outside which the dispersion is
// masked. One record per observation; no parallel lists to keep aligned.
type Observation struct {
	Aeff          *EffectiveArea
	Edisp         *EnergyDispersion
	Livetime      float64 // seconds
	LowThreshold  float64
	HighThreshold float64
}
