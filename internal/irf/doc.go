// Package irf provides instrument response functions and their stacking.
//
// An observation contributes an effective-area curve (sensitivity per
// true-energy bin), an energy-dispersion matrix (probability density of
// reconstructing energy k given true energy l), a livetime, and a safe
// reconstructed-energy range. The Stacker combines several observations
// into a single exposure-weighted response.
//
// Stacking of j observations, with k a reconstructed-energy bin and l a
// true-energy bin:
//
//	aeff[l]  = sum_j aeff_j[l] * t_j / sum_j t_j
//	edisp[l][k] = sum_j edisp_j[l][k] * aeff_j[l] * t_j * eps_jk
//	              / sum_j aeff_j[l] * t_j
//
// where eps_jk is 1 when reconstructed bin k lies inside observation j's
// safe range [low_j, high_j) and 0 otherwise.
//
// The two operations deliberately handle non-finite values differently:
// effective-area stacking replaces NaN inputs with zero before weighting,
// while dispersion stacking zeroes NaN/Inf cells after the final division
// (so an empty denominator column becomes exactly zero). Do not unify the
// two policies; callers depend on both.
package irf
