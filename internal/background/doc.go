// Package background builds energy-offset background acceptance models from
// observation event lists.
//
// A Model is a pair of 2-D histograms over (reconstructed energy, field-of-view
// offset): event counts and accumulated livetime. Filling is incremental per
// observation; once all observations are in, ComputeRate turns the histograms
// into a differential background rate (per second, TeV and steradian), and
// AcceptanceCurve integrates that rate over an energy band to produce the
// radial acceptance profile used for background modelling.
//
// Livetime is only accumulated in energy rows inside an observation's safe
// energy range, so runs with a high threshold do not dilute the rate at low
// energies they cannot measure.
package background
