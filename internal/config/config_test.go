package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"glider": "osu684",
		"db": { "host": "10.0.0.1", "port": "5433" },
		"goto": { "maxWaypoints": 5 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driftfollow.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "osu684", viper.GetString("glider"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
	assert.Equal(t, 5, viper.GetInt("goto.maxWaypoints"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driftfollow.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 10, viper.GetInt("drifter.nBack"))
	assert.Equal(t, 86400.0, viper.GetFloat64("drifter.tau"))
	assert.Equal(t, 900.0, viper.GetFloat64("goto.surfaceSeconds"))
	assert.Equal(t, 0.0, viper.GetFloat64("goto.resumeRadius"))
	assert.Equal(t, 7, viper.GetInt("goto.maxWaypoints"))
	assert.Equal(t, 43200.0, viper.GetFloat64("goto.targetDuration"))
	assert.Equal(t, false, viper.GetBool("goto.abortOnSearchError"))
	assert.Equal(t, 200.0, viper.GetFloat64("stability.matchRadius"))
	assert.Equal(t, 21600.0, viper.GetFloat64("stability.minDuration"))
	assert.Equal(t, "patterns.yaml", viper.GetString("pattern.file"))
	assert.Equal(t, 5*time.Minute, viper.GetDuration("update.interval"))
	assert.Equal(t, "localhost:25", viper.GetString("delivery.smtpAddr"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "driftfollow", viper.GetString("db.database"))
	assert.Equal(t, true, viper.GetBool("influx.enabled"))
	assert.Equal(t, "glider-metrics", viper.GetString("influx.org"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetFloat(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testFloat", 1.5)
	assert.Equal(t, 1.5, GetFloat("testFloat"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStrings(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testList", []string{"a@b.c", "d@e.f"})
	assert.Equal(t, []string{"a@b.c", "d@e.f"}, GetStrings("testList"))
}

func TestGetDuration(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testDur", "90s")
	assert.Equal(t, 90*time.Second, GetDuration("testDur"))
}
