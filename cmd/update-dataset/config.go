package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the update-dataset configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Convert ConvertConfig `yaml:"convert" mapstructure:"convert"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ConvertConfig holds defaults for the convert command. Extracts are
// usually per-locality, so city and state are often kept in a config file.
type ConvertConfig struct {
	City   string `yaml:"city" mapstructure:"city"`
	State  string `yaml:"state" mapstructure:"state"`
	Sample int    `yaml:"sample" mapstructure:"sample"`
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"`
}

// flagKeys maps config keys to command-line flags.
var flagKeys = map[string]string{
	"log.level":      "log-level",
	"log.format":     "log-format",
	"convert.city":   "city",
	"convert.state":  "state",
	"convert.sample": "sample",
	"convert.pretty": "pretty",
}

// LoadConfig reads configuration from flags, environment and an optional
// update-dataset.yaml in the working directory, in that precedence.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("update-dataset")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REALADDRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("convert.city", "")
	v.SetDefault("convert.state", "")
	v.SetDefault("convert.sample", 0)
	v.SetDefault("convert.pretty", true)

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, eris.Wrapf(err, "config: bind flag %s", name)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &c, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(c LogConfig) error {
	var zapCfg zap.Config
	if c.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
