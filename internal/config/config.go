package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("glider", "")

	viper.SetDefault("drifter.nBack", 10)
	viper.SetDefault("drifter.tau", 86400.0)

	viper.SetDefault("goto.surfaceSeconds", 900.0)
	viper.SetDefault("goto.resumeRadius", 0.0)
	viper.SetDefault("goto.maxWaypoints", 7)
	viper.SetDefault("goto.targetDuration", 43200.0)
	viper.SetDefault("goto.abortOnSearchError", false)

	viper.SetDefault("stability.matchRadius", 200.0)
	viper.SetDefault("stability.minDuration", 21600.0)

	viper.SetDefault("pattern.file", "patterns.yaml")

	viper.SetDefault("update.interval", "5m")

	viper.SetDefault("delivery.file", "")
	viper.SetDefault("delivery.archiveDir", "")
	viper.SetDefault("delivery.mailTo", []string{})
	viper.SetDefault("delivery.mailFrom", "")
	viper.SetDefault("delivery.smtpAddr", "localhost:25")
	viper.SetDefault("delivery.api.serverUrl", "")
	viper.SetDefault("delivery.api.apiKey", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "driftfollow")
	viper.SetDefault("db.sqlitePath", "./driftfollow.db")

	viper.SetDefault("influx.enabled", true)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "glider-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("driftfollow.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat returns a float64 config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStrings returns a string slice config value.
func GetStrings(key string) []string {
	return viper.GetStringSlice(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
