package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "errors"

	"github.com/wakewell/servicekit/errors"
)

func TestEnvironmentValid(t *testing.T) {
	assert.True(t, EnvDevelopment.Valid())
	assert.True(t, EnvTest.Valid())
	assert.True(t, EnvProduction.Valid())
	assert.False(t, Environment("").Valid())
	assert.False(t, Environment("staging").Valid())
}

func TestServiceValidate(t *testing.T) {
	valid := Service{Environment: EnvTest, Enabled: true}
	assert.NoError(t, valid.Validate())

	missing := Service{Enabled: true}
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMissingConfiguration))

	unknown := Service{Environment: "qa", Enabled: true}
	err = unknown.Validate()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidConfiguration))
}

func TestMerge(t *testing.T) {
	base := Service{
		Environment: EnvDevelopment,
		Enabled:     true,
		Options:     map[string]any{"retention_days": 30, "region": "eu"},
	}

	t.Run("empty override keeps base", func(t *testing.T) {
		merged := Merge(base, Override{})
		assert.Equal(t, base, merged)
	})

	t.Run("override wins per field", func(t *testing.T) {
		merged := Merge(base, Override{
			Environment: EnvProduction,
			Enabled:     Bool(false),
			Options:     map[string]any{"region": "us"},
		})
		assert.Equal(t, EnvProduction, merged.Environment)
		assert.False(t, merged.Enabled)
		assert.Equal(t, "us", merged.Options["region"])
		assert.Equal(t, 30, merged.Options["retention_days"])
	})

	t.Run("inputs not mutated", func(t *testing.T) {
		_ = Merge(base, Override{Options: map[string]any{"region": "us"}})
		assert.Equal(t, "eu", base.Options["region"])
	})
}

func TestServiceOptionGetters(t *testing.T) {
	svc := Service{Options: map[string]any{
		"name":    "wake-up",
		"count":   3,
		"count64": int64(7),
		"ratio":   0.5,
		"flag":    true,
	}}

	assert.Equal(t, "wake-up", svc.String("name", "x"))
	assert.Equal(t, "x", svc.String("missing", "x"))
	assert.Equal(t, "x", svc.String("count", "x"))

	assert.Equal(t, 3, svc.Int("count", 0))
	assert.Equal(t, 7, svc.Int("count64", 0))
	assert.Equal(t, 9, svc.Int("missing", 9))

	assert.Equal(t, 0.5, svc.Float("ratio", 0))
	assert.Equal(t, 3.0, svc.Float("count", 0))

	assert.True(t, svc.Bool("flag", false))
	assert.False(t, svc.Bool("missing", false))
}

func TestParseAndValidate(t *testing.T) {
	data := []byte(`
environment: test
metrics:
  enabled: true
services:
  analytics:
    options:
      batch_size: 10
  voice:
    enabled: false
`)

	g, err := Parse(data)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	assert.Equal(t, EnvTest, g.Environment)
	assert.Equal(t, "info", g.LogLevel)
	assert.Equal(t, "json", g.LogFormat)
	assert.Equal(t, 9090, g.Metrics.Port)

	require.Contains(t, g.Services, "voice")
	require.NotNil(t, g.Services["voice"].Enabled)
	assert.False(t, *g.Services["voice"].Enabled)
	assert.Nil(t, g.Services["analytics"].Enabled)

	defaults := g.Defaults()
	assert.Equal(t, EnvTest, defaults.Environment)
	assert.True(t, defaults.Enabled)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte(":\tnot yaml"))
	require.Error(t, err)
}

func TestGlobalValidateErrors(t *testing.T) {
	g, err := Parse([]byte(`environment: qa`))
	require.NoError(t, err)
	assert.Error(t, g.Validate())

	g, err = Parse([]byte("environment: test\nevents:\n  nats_enabled: true\n"))
	require.NoError(t, err)
	assert.Error(t, g.Validate())
}
