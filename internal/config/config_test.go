package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(nil))
	require.NoError(t, err)

	assert.False(t, cfg.DebugEnabled)
	assert.False(t, cfg.CaptureFullEmail)
	assert.Equal(t, DefaultCollectPath, cfg.CollectPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
	assert.Equal(t, "debuglog", cfg.ArchivePrefix)
	assert.NotEmpty(t, cfg.InstanceID)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{
		KeyDebug:        "true",
		KeyCaptureEmail: "1",
		KeyCollectPath:  "/collect",
		KeyInstanceID:   "web-1",
		KeySendTimeout:  "250ms",
		KeyLogSampleN:   "10",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.DebugEnabled)
	assert.True(t, cfg.CaptureFullEmail)
	assert.Equal(t, "/collect", cfg.CollectPath)
	assert.Equal(t, "web-1", cfg.InstanceID)
	assert.Equal(t, 250*time.Millisecond, cfg.SendTimeout)
	assert.Equal(t, uint32(10), cfg.LogSampleN)
	assert.Equal(t, "debug", cfg.LogLevel, "debug mode lowers the default level")
}

func TestLoadFromExplicitLevelWins(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{KeyDebug: "true", KeyLogLevel: "warn"}))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromEmptyValueIsUnset(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{KeyCollectPath: ""}))
	require.NoError(t, err)
	assert.Equal(t, DefaultCollectPath, cfg.CollectPath)
}

func TestLoadFromMalformed(t *testing.T) {
	cases := map[string]map[string]string{
		"bool":     {KeyDebug: "yes please"},
		"int":      {KeyLogSampleN: "many"},
		"negative": {KeyLogSampleN: "-1"},
		"duration": {KeySendTimeout: "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(mapLookup(env))
			require.Error(t, err)
		})
	}
}
