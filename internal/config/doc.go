// Package config loads and validates analysis configurations.
//
// A configuration is a YAML document describing the binning of an analysis
// (energy and offset axes), an optional acceptance energy band, and optional
// settings for the external source-detection binary. The decoded document is
// validated against an embedded CUE schema before it reaches any numeric
// code, so axis constructors never see a malformed binning.
package config
