package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/bobsim/datawash/pkg/schema"
)

func TestParseKinds(t *testing.T) {
	reg := schema.Default()

	all, err := parseKinds(reg, "all")
	require.NoError(t, err)
	assert.Equal(t, reg.Kinds(), all)

	some, err := parseKinds(reg, "raw_material_price, marine_weather")
	require.NoError(t, err)
	assert.Equal(t, []schema.Kind{schema.RawMaterialPrice, schema.MarineWeather}, some)

	_, err = parseKinds(reg, "fish_catch")
	assert.ErrorIs(t, err, schema.ErrUnknownDatasetKind)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = newLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = newLogger("loud", "json")
	assert.Error(t, err)
	_, err = newLogger("info", "xml")
	assert.Error(t, err)
}
