package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const settingsFile = "legionsim.cfg.json"

// SimConfig holds the driver settings shared by the runners.
type SimConfig struct {
	UPS      int `json:"ups" mapstructure:"ups"`
	MaxTicks int `json:"maxTicks" mapstructure:"maxTicks"`
	Workers  int `json:"workers" mapstructure:"workers"`
}

// ResultsConfig holds the outcome store settings.
type ResultsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// Load reads settings from the JSON file in configDir and sets default values.
// A missing file is not an error; every key then comes from defaults or the
// LEGIONSIM_ environment.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("sim.ups", 60)
	viper.SetDefault("sim.maxTicks", 20000)
	viper.SetDefault("sim.workers", 8)

	viper.SetDefault("results.enabled", false)
	viper.SetDefault("results.path", "./results.db")

	viper.SetEnvPrefix("LEGIONSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(settingsFile)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
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

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSimConfig returns the driver settings. Non-positive rates and worker
// counts fall back to one.
func GetSimConfig() SimConfig {
	cfg := SimConfig{
		UPS:      viper.GetInt("sim.ups"),
		MaxTicks: viper.GetInt("sim.maxTicks"),
		Workers:  viper.GetInt("sim.workers"),
	}
	if cfg.UPS < 1 {
		cfg.UPS = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}

func GetResultsConfig() ResultsConfig {
	return ResultsConfig{
		Enabled: viper.GetBool("results.enabled"),
		Path:    viper.GetString("results.path"),
	}
}
