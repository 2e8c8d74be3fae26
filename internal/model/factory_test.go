package model

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNormalizer struct{ name string }

func (s stubNormalizer) Name() string { return s.name }

func (s stubNormalizer) Normalize(io.Reader) (NormalizedResult, error) {
	return NormalizedResult{Result: s.name}, nil
}

func TestRegisterAndNewNormalizer(t *testing.T) {
	Register("stub-a", func(zerolog.Logger) Normalizer { return stubNormalizer{name: "stub-a"} })

	n, err := NewNormalizer("stub-a", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "stub-a", n.Name())
	assert.Contains(t, Providers(), "stub-a")
}

func TestNewNormalizer_Unknown(t *testing.T) {
	_, err := NewNormalizer("does-not-exist", zerolog.Nop())
	require.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestProvidersSorted(t *testing.T) {
	Register("stub-z", func(zerolog.Logger) Normalizer { return stubNormalizer{name: "stub-z"} })
	Register("stub-b", func(zerolog.Logger) Normalizer { return stubNormalizer{name: "stub-b"} })

	names := Providers()
	assert.IsIncreasing(t, names)
}

func TestUsageAdd(t *testing.T) {
	var u Usage
	u.Add(Usage{InputTokens: 10, OutputTokens: 5, CacheReadInputTokens: 2})
	u.Add(Usage{InputTokens: 3, OutputTokens: 1})

	assert.Equal(t, Usage{InputTokens: 13, OutputTokens: 6, CacheReadInputTokens: 2}, u)
	assert.Equal(t, 19, u.TotalTokens())

	var nilUsage *Usage
	assert.Zero(t, nilUsage.TotalTokens())
}
