package background

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/gammakit/gammakit/internal/axis"
	"github.com/gammakit/gammakit/internal/catalog"
)

// Model accumulates event counts and livetime over (energy, offset) bins and
// derives background rates from them.
//
// Counts, Livetime and Rate are indexed [energy bin][offset bin]. Rate is nil
// until ComputeRate has run.
type Model struct {
	Energy *axis.Axis // reconstructed energy, TeV
	Offset *axis.Axis // field-of-view offset, deg

	Counts   [][]float64
	Livetime [][]float64 // seconds
	Rate     [][]float64 // s⁻¹ TeV⁻¹ sr⁻¹

	log zerolog.Logger
}

// FillStats reports what happened to one observation's events during Fill.
type FillStats struct {
	Filled  int // events histogrammed
	Skipped int // events outside the energy or offset axis
}

// New creates an empty model over the given axes. The logger receives
// per-observation fill diagnostics; pass zerolog.Nop() to silence them.
func New(energy, offset *axis.Axis, log zerolog.Logger) *Model {
	ne, no := energy.NBins(), offset.NBins()
	counts := make([][]float64, ne)
	livetime := make([][]float64, ne)
	for e := 0; e < ne; e++ {
		counts[e] = make([]float64, no)
		livetime[e] = make([]float64, no)
	}
	return &Model{
		Energy:   energy,
		Offset:   offset,
		Counts:   counts,
		Livetime: livetime,
		log:      log,
	}
}

// Fill histograms one observation's events and accumulates its livetime.
//
// Events outside either axis are skipped and counted in the returned stats.
// Livetime is added to every offset bin of the energy rows whose lower edge
// lies inside the observation's safe range [LowThreshold, HighThreshold).
func (m *Model) Fill(obs catalog.Observation, events []catalog.Event) FillStats {
	var stats FillStats
	for _, ev := range events {
		e := m.Energy.Find(ev.Energy)
		o := m.Offset.Find(ev.Offset)
		if e < 0 || o < 0 {
			stats.Skipped++
			continue
		}
		m.Counts[e][o]++
		stats.Filled++
	}

	for e := 0; e < m.Energy.NBins(); e++ {
		lo := m.Energy.LowerEdge(e)
		if lo < obs.LowThreshold || lo >= obs.HighThreshold {
			continue
		}
		for o := 0; o < m.Offset.NBins(); o++ {
			m.Livetime[e][o] += obs.Livetime
		}
	}

	m.log.Debug().
		Int64("obs_id", obs.ObsID).
		Int("filled", stats.Filled).
		Int("skipped", stats.Skipped).
		Float64("livetime_s", obs.Livetime).
		Msg("filled observation into background model")
	return stats
}

// ComputeRate derives the differential background rate from the accumulated
// histograms:
//
//	rate[e][o] = counts[e][o] / (livetime[e][o] * ΔE_e * Ω_o)
//
// where Ω_o is the solid angle of the offset annulus o. Bins with no
// accumulated livetime get rate 0 rather than NaN/Inf.
func (m *Model) ComputeRate() {
	ne, no := m.Energy.NBins(), m.Offset.NBins()
	rate := make([][]float64, ne)
	for e := 0; e < ne; e++ {
		rate[e] = make([]float64, no)
		de := m.Energy.Width(e)
		for o := 0; o < no; o++ {
			v := m.Counts[e][o] / (m.Livetime[e][o] * de * m.solidAngle(o))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			rate[e][o] = v
		}
	}
	m.Rate = rate
}

// solidAngle returns the solid angle in steradians of offset annulus o.
func (m *Model) solidAngle(o int) float64 {
	lo := m.Offset.LowerEdge(o) * math.Pi / 180
	hi := m.Offset.UpperEdge(o) * math.Pi / 180
	return 2 * math.Pi * (math.Cos(lo) - math.Cos(hi))
}

// Curve is a radial acceptance profile: integrated background rate per
// offset bin over an energy band.
type Curve struct {
	Offset     []float64 // bin centers, deg
	Acceptance []float64 // s⁻¹ per offset bin
}

// AcceptanceCurve integrates the background rate over [emin, emax],
// subdividing the band into nbins log-spaced integration steps, and returns
// the acceptance per offset bin. ComputeRate must have run first.
func (m *Model) AcceptanceCurve(emin, emax float64, nbins int) (*Curve, error) {
	if m.Rate == nil {
		return nil, fmt.Errorf("acceptance curve needs rates: call ComputeRate first")
	}
	band, err := axis.EqualLogSpacing(emin, emax, nbins)
	if err != nil {
		return nil, fmt.Errorf("acceptance energy band: %w", err)
	}

	no := m.Offset.NBins()
	curve := &Curve{
		Offset:     make([]float64, no),
		Acceptance: make([]float64, no),
	}
	for o := 0; o < no; o++ {
		curve.Offset[o] = m.Offset.Center(o)
	}

	for i := 0; i < band.NBins(); i++ {
		e := m.Energy.Find(band.LogCenter(i))
		if e < 0 {
			continue
		}
		de := band.Width(i)
		for o := 0; o < no; o++ {
			curve.Acceptance[o] += m.Rate[e][o] * de * m.solidAngle(o)
		}
	}
	return curve, nil
}
