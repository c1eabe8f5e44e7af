package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, defaultCachePath, cfg.CachePath)
	assert.Equal(t, defaultOCRModel, cfg.OCRModel)
	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, time.Hour, cfg.AnnounceInterval)
	assert.False(t, cfg.MockMode)
	assert.False(t, cfg.TestMode)
	assert.Zero(t, cfg.GroupID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("D2RTZ_API_URL", "http://localhost:9999/tz")
	t.Setenv("D2RTZ_GROUP_ID", "123456789")
	t.Setenv("D2RTZ_MOCK_MODE", "true")
	t.Setenv("D2RTZ_ANNOUNCE_INTERVAL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/tz", cfg.APIURL)
	assert.Equal(t, int64(123456789), cfg.GroupID)
	assert.True(t, cfg.MockMode)
	assert.Equal(t, 30*time.Minute, cfg.AnnounceInterval)
}

func TestLoadBadValues(t *testing.T) {
	t.Setenv("D2RTZ_GROUP_ID", "not-a-number")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("D2RTZ_GROUP_ID", "1")
	t.Setenv("D2RTZ_MOCK_MODE", "maybe")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("D2RTZ_MOCK_MODE", "false")
	t.Setenv("D2RTZ_ANNOUNCE_INTERVAL", "soon")
	_, err = Load()
	require.Error(t, err)
}
