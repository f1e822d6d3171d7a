package irf

import (
	"fmt"
	"math"
)

// Stacker computes exposure-weighted mean response functions over a fixed
// set of observations. It is constructed once with the full input list and
// produces outputs on demand; there are no incremental updates.
//
// Stacker performs no I/O and holds no mutable state beyond the input list,
// which is treated as read-only after construction.
type Stacker struct {
	obs []Observation
}

// NewStacker creates a stacker over the given observations.
func NewStacker(obs []Observation) (*Stacker, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("stacker needs at least one observation")
	}
	for i, o := range obs {
		if o.Aeff == nil {
			return nil, fmt.Errorf("observation %d has no effective area", i)
		}
	}
	return &Stacker{obs: obs}, nil
}

// StackEffectiveArea computes the exposure-weighted mean effective area:
//
//	result[l] = sum_j area_j[l] * t_j / sum_j t_j
//
// NaN entries in an input curve are treated as zero before weighting.
// Returns a SHAPE_MISMATCH error when the curves do not share identical
// energy binning and a DEGENERATE_INPUT error when the total livetime is
// zero or any livetime is negative.
func (s *Stacker) StackEffectiveArea() (*EffectiveArea, error) {
	ref := s.obs[0].Aeff.Energy
	n := ref.NBins()

	sum := make([]float64, n)
	var total float64
	for j, o := range s.obs {
		if !o.Aeff.Energy.Equal(ref) {
			return nil, newShapeMismatch(j, "effective-area energy binning %s differs from %s", o.Aeff.Energy, ref)
		}
		if o.Livetime < 0 {
			return nil, newDegenerateInput(j, "negative livetime %g s", o.Livetime)
		}
		total += o.Livetime
		for l, a := range o.Aeff.Area {
			if math.IsNaN(a) {
				a = 0
			}
			sum[l] += a * o.Livetime
		}
	}
	if total == 0 {
		return nil, newDegenerateInput(-1, "total livetime is zero")
	}

	out := make([]float64, n)
	for l := range sum {
		out[l] = sum[l] / total
	}
	return &EffectiveArea{Energy: ref, Area: out}, nil
}

// StackEnergyDispersion computes the mean energy dispersion, weighting each
// observation's matrix by its effective area times livetime and masking
// reconstructed bins outside the observation's safe range:
//
//	result[l][k] = sum_j pdf_j[l][k] * area_j[l] * t_j * eps_jk
//	               / sum_j area_j[l] * t_j
//
// A reconstructed bin is inside the safe range when its lower edge lies in
// [LowThreshold, HighThreshold). NaN areas are filled to zero before
// weighting; NaN/Inf cells produced by the final division (a zero
// denominator) are replaced with zero afterwards, so an unexposed
// true-energy column is exactly zero rather than undefined.
// Returns a SHAPE_MISMATCH error when the matrices or areas do not share
// identical binning.
func (s *Stacker) StackEnergyDispersion() (*EnergyDispersion, error) {
	first := s.obs[0].Edisp
	if first == nil {
		return nil, newShapeMismatch(0, "observation has no energy dispersion")
	}
	etrue, ereco := first.ETrue, first.EReco
	nt, nr := etrue.NBins(), ereco.NBins()

	num := make([][]float64, nt)
	for l := range num {
		num[l] = make([]float64, nr)
	}
	den := make([]float64, nt)

	for j, o := range s.obs {
		if o.Edisp == nil {
			return nil, newShapeMismatch(j, "observation has no energy dispersion")
		}
		if !o.Edisp.ETrue.Equal(etrue) || !o.Edisp.EReco.Equal(ereco) {
			return nil, newShapeMismatch(j, "dispersion binning (%s x %s) differs from (%s x %s)",
				o.Edisp.ETrue, o.Edisp.EReco, etrue, ereco)
		}
		if !o.Aeff.Energy.Equal(etrue) {
			return nil, newShapeMismatch(j, "effective-area binning %s differs from dispersion true-energy binning %s",
				o.Aeff.Energy, etrue)
		}
		if o.Livetime < 0 {
			return nil, newDegenerateInput(j, "negative livetime %g s", o.Livetime)
		}

		safe := make([]bool, nr)
		for k := range safe {
			lo := ereco.LowerEdge(k)
			safe[k] = lo >= o.LowThreshold && lo < o.HighThreshold
		}

		for l := 0; l < nt; l++ {
			a := o.Aeff.Area[l]
			if math.IsNaN(a) {
				a = 0
			}
			w := a * o.Livetime
			den[l] += w
			for k := 0; k < nr; k++ {
				if !safe[k] {
					continue
				}
				num[l][k] += o.Edisp.PDF[l][k] * w
			}
		}
	}

	for l := 0; l < nt; l++ {
		for k := 0; k < nr; k++ {
			v := num[l][k] / den[l]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			num[l][k] = v
		}
	}
	return &EnergyDispersion{ETrue: etrue, EReco: ereco, PDF: num}, nil
}

// NObs returns the number of observations in the stack.
func (s *Stacker) NObs() int {
	return len(s.obs)
}

// TotalLivetime returns the summed livetime of all observations in seconds.
func (s *Stacker) TotalLivetime() float64 {
	var total float64
	for _, o := range s.obs {
		total += o.Livetime
	}
	return total
}
