package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
)

// configName is the config file name without extension.
const configName = ".codemerge"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for codemerge settings.
const envPrefix = "CODEMERGE"

// Load loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	if err := viperCfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: read %s: %w", errors.ErrMsgFailedToLoadConfig, viperCfg.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: unmarshal: %w", errors.ErrMsgFailedToLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToLoadConfig, err)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	defaults := Default()

	viperCfg.SetDefault("language", defaults.Language)
	viperCfg.SetDefault("directory", defaults.Directory)
	viperCfg.SetDefault("output", defaults.Output)
	viperCfg.SetDefault("recurse", defaults.Recurse)
	viperCfg.SetDefault("max_depth", defaults.MaxDepth)
	viperCfg.SetDefault("ignore", defaults.Ignore)
	viperCfg.SetDefault("max_file_size", defaults.MaxFileSize)
	viperCfg.SetDefault("workers", defaults.Workers)

	viperCfg.SetDefault("indent_size", defaults.IndentSize)
	viperCfg.SetDefault("placement", defaults.Placement)
	viperCfg.SetDefault("std_prefix", defaults.StdPrefix)
	viperCfg.SetDefault("brace_style", defaults.BraceStyle)

	viperCfg.SetDefault("report", defaults.Report)
}
