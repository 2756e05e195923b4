package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are the process-level knobs. Each key can come from the
// environment (MCPFORGE_*) or from ~/.config/mcpforge/config.yaml; a
// missing config file is fine.
type Settings struct {
	// ConfigPath overrides the Claude Desktop config location. Empty
	// means the platform default.
	ConfigPath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// DefaultLanguage is used when create-server names no language.
	DefaultLanguage string
}

func Load() (*Settings, error) {
	v := viper.New()
	v.SetDefault("config_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("default_language", "typescript")

	v.SetEnvPrefix("MCPFORGE")
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".config", "mcpforge"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read mcpforge config: %w", err)
			}
		}
	}

	return &Settings{
		ConfigPath:      v.GetString("config_path"),
		LogLevel:        v.GetString("log_level"),
		DefaultLanguage: v.GetString("default_language"),
	}, nil
}
