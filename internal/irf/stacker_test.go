package irf

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammakit/gammakit/internal/axis"
)

func mustAxis(t *testing.T, edges ...float64) *axis.Axis {
	t.Helper()
	a, err := axis.FromEdges(edges)
	require.NoError(t, err)
	return a
}

func mustAeff(t *testing.T, energy *axis.Axis, area ...float64) *EffectiveArea {
	t.Helper()
	aeff, err := NewEffectiveArea(energy, area)
	require.NoError(t, err)
	return aeff
}

func mustEdisp(t *testing.T, etrue, ereco *axis.Axis, pdf [][]float64) *EnergyDispersion {
	t.Helper()
	edisp, err := NewEnergyDispersion(etrue, ereco, pdf)
	require.NoError(t, err)
	return edisp
}

func TestNewStacker_Empty(t *testing.T) {
	_, err := NewStacker(nil)
	assert.Error(t, err, "empty input list is rejected")
}

func TestNewStacker_MissingAeff(t *testing.T) {
	_, err := NewStacker([]Observation{{Livetime: 1}})
	assert.Error(t, err)
}

func TestStackEffectiveArea_ConcreteScenario(t *testing.T) {
	// Two observations, 2 true-energy bins, areas [10,20] and [30,40] cm²,
	// livetimes 1 and 3 => [(10*1+30*3)/4, (20*1+40*3)/4] = [25, 35].
	energy := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, 10, 20), Livetime: 1},
		{Aeff: mustAeff(t, energy, 30, 40), Livetime: 3},
	})
	require.NoError(t, err)

	stacked, err := s.StackEffectiveArea()
	require.NoError(t, err)

	assert.Equal(t, []float64{25, 35}, stacked.Area)
	assert.True(t, stacked.Energy.Equal(energy), "output keeps the input binning")
}

func TestStackEffectiveArea_EqualLivetimesIsArithmeticMean(t *testing.T) {
	energy := mustAxis(t, 0.1, 1, 10, 100)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, 10, 20, 5), Livetime: 7},
		{Aeff: mustAeff(t, energy, 30, 40, 15), Livetime: 7},
		{Aeff: mustAeff(t, energy, 20, 60, 10), Livetime: 7},
	})
	require.NoError(t, err)

	stacked, err := s.StackEffectiveArea()
	require.NoError(t, err)

	for l, want := range []float64{20, 40, 10} {
		assert.InDelta(t, want, stacked.Area[l], 1e-12, "bin %d should be the arithmetic mean", l)
	}
}

func TestStackEffectiveArea_SingleObservationIdentity(t *testing.T) {
	energy := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, 12.5, 33), Livetime: 1800},
	})
	require.NoError(t, err)

	stacked, err := s.StackEffectiveArea()
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5, 33}, stacked.Area)
}

func TestStackEffectiveArea_NaNFilledBeforeWeighting(t *testing.T) {
	energy := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, math.NaN(), 20), Livetime: 1},
		{Aeff: mustAeff(t, energy, 30, 40), Livetime: 1},
	})
	require.NoError(t, err)

	stacked, err := s.StackEffectiveArea()
	require.NoError(t, err)

	assert.Equal(t, 15.0, stacked.Area[0], "NaN contributes 0 to the weighted sum, not NaN")
	assert.Equal(t, 30.0, stacked.Area[1])
}

func TestStackEffectiveArea_ShapeMismatch(t *testing.T) {
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, mustAxis(t, 0.1, 1, 10), 10, 20), Livetime: 1},
		{Aeff: mustAeff(t, mustAxis(t, 0.1, 1, 10, 100), 30, 40, 50), Livetime: 1},
	})
	require.NoError(t, err)

	_, err = s.StackEffectiveArea()
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err), "different bin counts raise SHAPE_MISMATCH, got %v", err)
	assert.False(t, IsDegenerateInput(err))
}

func TestStackEffectiveArea_AllZeroLivetimes(t *testing.T) {
	energy := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, 10, 20), Livetime: 0},
		{Aeff: mustAeff(t, energy, 30, 40), Livetime: 0},
	})
	require.NoError(t, err)

	_, err = s.StackEffectiveArea()
	require.Error(t, err)
	assert.True(t, IsDegenerateInput(err), "zero total livetime raises DEGENERATE_INPUT, got %v", err)
}

func TestStackEffectiveArea_NegativeLivetime(t *testing.T) {
	energy := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, 10, 20), Livetime: -5},
		{Aeff: mustAeff(t, energy, 30, 40), Livetime: 10},
	})
	require.NoError(t, err)

	_, err = s.StackEffectiveArea()
	require.Error(t, err)
	assert.True(t, IsDegenerateInput(err))
}

func TestStackEnergyDispersion_SingleObservationIdentity(t *testing.T) {
	etrue := mustAxis(t, 0.1, 1, 10)
	ereco := mustAxis(t, 0.1, 1, 10)
	pdf := [][]float64{
		{0.8, 0.2},
		{0.3, 0.7},
	}
	s, err := NewStacker([]Observation{{
		Aeff:          mustAeff(t, etrue, 10, 20),
		Edisp:         mustEdisp(t, etrue, ereco, pdf),
		Livetime:      1800,
		LowThreshold:  ereco.Min(),
		HighThreshold: ereco.Max(),
	}})
	require.NoError(t, err)

	stacked, err := s.StackEnergyDispersion()
	require.NoError(t, err)

	for l := range pdf {
		for k := range pdf[l] {
			assert.InDelta(t, pdf[l][k], stacked.PDF[l][k], 1e-12,
				"single observation with full safe range returns its dispersion unchanged (l=%d k=%d)", l, k)
		}
	}
}

func TestStackEnergyDispersion_ExposureWeighting(t *testing.T) {
	etrue := mustAxis(t, 1, 10)
	ereco := mustAxis(t, 1, 3, 10)
	s, err := NewStacker([]Observation{
		{
			Aeff:          mustAeff(t, etrue, 2),
			Edisp:         mustEdisp(t, etrue, ereco, [][]float64{{0.5, 0.5}}),
			Livetime:      1,
			LowThreshold:  1,
			HighThreshold: 10,
		},
		{
			Aeff:          mustAeff(t, etrue, 4),
			Edisp:         mustEdisp(t, etrue, ereco, [][]float64{{1.0, 0.0}}),
			Livetime:      2,
			LowThreshold:  1,
			HighThreshold: 10,
		},
	})
	require.NoError(t, err)

	stacked, err := s.StackEnergyDispersion()
	require.NoError(t, err)

	// Weights: w1 = 2*1 = 2, w2 = 4*2 = 8, denominator 10.
	assert.InDelta(t, 0.9, stacked.PDF[0][0], 1e-12)
	assert.InDelta(t, 0.1, stacked.PDF[0][1], 1e-12)
}

func TestStackEnergyDispersion_ThresholdMasking(t *testing.T) {
	etrue := mustAxis(t, 1, 10)
	ereco := mustAxis(t, 1, 3, 10)
	s, err := NewStacker([]Observation{
		{
			Aeff:          mustAeff(t, etrue, 2),
			Edisp:         mustEdisp(t, etrue, ereco, [][]float64{{0.5, 0.5}}),
			Livetime:      1,
			LowThreshold:  1,
			HighThreshold: 10,
		},
		{
			// Safe range [3, 10): reconstructed bin 0 (lower edge 1) is masked.
			Aeff:          mustAeff(t, etrue, 4),
			Edisp:         mustEdisp(t, etrue, ereco, [][]float64{{1.0, 0.0}}),
			Livetime:      2,
			LowThreshold:  3,
			HighThreshold: 10,
		},
	})
	require.NoError(t, err)

	stacked, err := s.StackEnergyDispersion()
	require.NoError(t, err)

	// Masking zeroes the second observation's contribution to bin 0 but its
	// weight stays in the denominator: num = 0.5*2, den = 10.
	assert.InDelta(t, 0.1, stacked.PDF[0][0], 1e-12)
	assert.InDelta(t, 0.1, stacked.PDF[0][1], 1e-12)
}

func TestStackEnergyDispersion_ZeroDenominatorIsZero(t *testing.T) {
	etrue := mustAxis(t, 0.1, 1, 10)
	ereco := mustAxis(t, 0.1, 1, 10)
	pdf := [][]float64{
		{0.8, 0.2},
		{0.3, 0.7},
	}
	// Zero effective area in true bin 0 for every observation: the
	// denominator for that column is 0, so the result must be exactly 0.
	s, err := NewStacker([]Observation{{
		Aeff:          mustAeff(t, etrue, 0, 20),
		Edisp:         mustEdisp(t, etrue, ereco, pdf),
		Livetime:      100,
		LowThreshold:  ereco.Min(),
		HighThreshold: ereco.Max(),
	}})
	require.NoError(t, err)

	stacked, err := s.StackEnergyDispersion()
	require.NoError(t, err)

	assert.Equal(t, 0.0, stacked.PDF[0][0], "0/0 resolves to 0, not NaN")
	assert.Equal(t, 0.0, stacked.PDF[0][1])
	assert.False(t, math.IsNaN(stacked.PDF[0][0]))
	assert.InDelta(t, 0.3, stacked.PDF[1][0], 1e-12, "exposed columns are unaffected")
}

func TestStackEnergyDispersion_NaNAreaFilledBeforeWeighting(t *testing.T) {
	etrue := mustAxis(t, 1, 10)
	ereco := mustAxis(t, 1, 10)
	s, err := NewStacker([]Observation{
		{
			Aeff:          mustAeff(t, etrue, math.NaN()),
			Edisp:         mustEdisp(t, etrue, ereco, [][]float64{{1.0}}),
			Livetime:      1,
			LowThreshold:  1,
			HighThreshold: 10,
		},
		{
			Aeff:          mustAeff(t, etrue, 4),
			Edisp:         mustEdisp(t, etrue, ereco, [][]float64{{0.5}}),
			Livetime:      1,
			LowThreshold:  1,
			HighThreshold: 10,
		},
	})
	require.NoError(t, err)

	stacked, err := s.StackEnergyDispersion()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stacked.PDF[0][0], 1e-12, "NaN area weighs the first observation to zero")
}

func TestStackEnergyDispersion_ShapeMismatch(t *testing.T) {
	etrue := mustAxis(t, 0.1, 1, 10)
	ereco := mustAxis(t, 0.1, 1, 10)
	erecoOther := mustAxis(t, 0.1, 2, 10)
	pdf := [][]float64{{0.8, 0.2}, {0.3, 0.7}}

	s, err := NewStacker([]Observation{
		{
			Aeff:     mustAeff(t, etrue, 10, 20),
			Edisp:    mustEdisp(t, etrue, ereco, pdf),
			Livetime: 1,
		},
		{
			Aeff:     mustAeff(t, etrue, 10, 20),
			Edisp:    mustEdisp(t, etrue, erecoOther, pdf),
			Livetime: 1,
		},
	})
	require.NoError(t, err)

	_, err = s.StackEnergyDispersion()
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err), "inconsistent reco binning raises SHAPE_MISMATCH, got %v", err)
}

func TestStackEnergyDispersion_MissingDispersion(t *testing.T) {
	etrue := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, etrue, 10, 20), Livetime: 1},
	})
	require.NoError(t, err)

	_, err = s.StackEnergyDispersion()
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err))
}

func TestStackEnergyDispersion_AeffBinningMismatch(t *testing.T) {
	etrue := mustAxis(t, 0.1, 1, 10)
	ereco := mustAxis(t, 0.1, 1, 10)
	pdf := [][]float64{{0.8, 0.2}, {0.3, 0.7}}

	s, err := NewStacker([]Observation{{
		Aeff:     mustAeff(t, mustAxis(t, 0.2, 1, 10), 10, 20),
		Edisp:    mustEdisp(t, etrue, ereco, pdf),
		Livetime: 1,
	}})
	require.NoError(t, err)

	_, err = s.StackEnergyDispersion()
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err), "area binning must match dispersion true-energy binning")
}

func TestStacker_Totals(t *testing.T) {
	energy := mustAxis(t, 0.1, 1, 10)
	s, err := NewStacker([]Observation{
		{Aeff: mustAeff(t, energy, 10, 20), Livetime: 1},
		{Aeff: mustAeff(t, energy, 30, 40), Livetime: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.NObs())
	assert.Equal(t, 4.0, s.TotalLivetime())
}

func TestStackError_Error(t *testing.T) {
	err := newShapeMismatch(2, "bad binning")
	assert.Equal(t, "SHAPE_MISMATCH: bad binning (observation 2)", err.Error())

	err = newDegenerateInput(-1, "total livetime is zero")
	assert.Equal(t, "DEGENERATE_INPUT: total livetime is zero", err.Error())
}

func TestStackError_HelpersUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("stacking failed: %w", newShapeMismatch(0, "bad"))
	assert.True(t, IsShapeMismatch(wrapped))
	assert.False(t, IsDegenerateInput(wrapped))
	assert.False(t, IsShapeMismatch(fmt.Errorf("plain")))
}
