package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateRejectsOutOfRangeCutoffs(t *testing.T) {
	cases := []struct {
		name string
		mut  func(c *Config)
	}{
		{"tau_sparse zero", func(c *Config) { c.TauSparse = 0 }},
		{"tau_sparse >= 1", func(c *Config) { c.TauSparse = 1 }},
		{"msv_P out of range", func(c *Config) { c.MSVP = 1.5 }},
		{"vf_P out of range", func(c *Config) { c.VFP = -0.1 }},
		{"ff_P out of range", func(c *Config) { c.FFP = 0 }},
		{"mass_trace_epsilon non-positive", func(c *Config) { c.MassTraceEpsilon = 0 }},
		{"simd_width unsupported", func(c *Config) { c.SIMDWidth = 24 }},
		{"expected domains non-positive", func(c *Config) { c.ExpectedDomains = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mut(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidProfile)
		})
	}
}

func TestConfigValidateAcceptsZeroSIMDWidthAsAuto(t *testing.T) {
	c := DefaultConfig()
	c.SIMDWidth = 0
	assert.NoError(t, c.Validate())
}
