package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
energy:
  min: 0.1
  max: 100
  bins: 100
offset:
  min: 0
  max: 2.5
  bins: 100
acceptance:
  emin: 1
  emax: 10
  bins: 10
detect:
  binary: sex
  args: ["-c", "default.sex"]
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.Energy.Min)
	assert.Equal(t, 100, cfg.Energy.Bins)
	assert.Equal(t, 2.5, cfg.Offset.Max)
	require.NotNil(t, cfg.Acceptance)
	assert.Equal(t, 10.0, cfg.Acceptance.EMax)
	require.NotNil(t, cfg.Detect)
	assert.Equal(t, "sex", cfg.Detect.Binary)
	assert.Equal(t, []string{"-c", "default.sex"}, cfg.Detect.Args)
}

func TestParse_OptionalSectionsOmitted(t *testing.T) {
	cfg, err := Parse([]byte(`
energy: {min: 0.1, max: 100, bins: 10}
offset: {min: 0, max: 2.5, bins: 10}
`))
	require.NoError(t, err)
	assert.Nil(t, cfg.Acceptance)
	assert.Nil(t, cfg.Detect)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"max below min",
			`{energy: {min: 10, max: 1, bins: 10}, offset: {min: 0, max: 2.5, bins: 10}}`,
		},
		{
			"zero bins",
			`{energy: {min: 0.1, max: 100, bins: 0}, offset: {min: 0, max: 2.5, bins: 10}}`,
		},
		{
			"energy min must be positive",
			`{energy: {min: 0, max: 100, bins: 10}, offset: {min: 0, max: 2.5, bins: 10}}`,
		},
		{
			"negative offset",
			`{energy: {min: 0.1, max: 100, bins: 10}, offset: {min: -1, max: 2.5, bins: 10}}`,
		},
		{
			"missing offset section",
			`{energy: {min: 0.1, max: 100, bins: 10}}`,
		},
		{
			"empty detect binary",
			`{energy: {min: 0.1, max: 100, bins: 10}, offset: {min: 0, max: 2.5, bins: 10}, detect: {binary: ""}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_NotYAML(t *testing.T) {
	_, err := Parse([]byte("{:::"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Offset.Bins)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAxes(t *testing.T) {
	cfg := Default()

	energy, err := cfg.EnergyAxis()
	require.NoError(t, err)
	assert.Equal(t, 100, energy.NBins())
	assert.Equal(t, 0.1, energy.Min())
	assert.Equal(t, 100.0, energy.Max())

	offset, err := cfg.OffsetAxis()
	require.NoError(t, err)
	assert.Equal(t, 100, offset.NBins())
	assert.Equal(t, 2.5, offset.Max())
}
