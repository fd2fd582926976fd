package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NODELIC_INCLUDE_DEV.
const EnvPrefix = "NODELIC"

// Config holds the report settings after merging defaults, config file,
// environment and command-line flags.
type Config struct {
	Path         string `mapstructure:"path"`
	IncludeDev   bool   `mapstructure:"include_dev"`
	JSON         bool   `mapstructure:"json"`
	Format       string `mapstructure:"format"`
	Manifest     string `mapstructure:"manifest"`
	ModulesDir   string `mapstructure:"modules_dir"`
	MetadataFile string `mapstructure:"metadata_file"`
}

var defaultConfig = Config{
	Format:       "text",
	Manifest:     "package.json",
	ModulesDir:   "node_modules",
	MetadataFile: "package.json",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"path":        "path",
	"include-dev": "include_dev",
	"json":        "json",
	"format":      "format",
	"manifest":    "manifest",
	"modules-dir": "modules_dir",
}

// Default returns the built-in settings.
func Default() Config {
	return defaultConfig
}

// Load resolves settings. An explicit configFile must exist and parse; the
// implicit .nodelic.yaml lookup in the working directory and $HOME is optional.
// Flags that were set on the command line take precedence over everything else.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("path", defaultConfig.Path)
	v.SetDefault("include_dev", defaultConfig.IncludeDev)
	v.SetDefault("json", defaultConfig.JSON)
	v.SetDefault("format", defaultConfig.Format)
	v.SetDefault("manifest", defaultConfig.Manifest)
	v.SetDefault("modules_dir", defaultConfig.ModulesDir)
	v.SetDefault("metadata_file", defaultConfig.MetadataFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".nodelic")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("error binding flag --%s: %w", name, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}
