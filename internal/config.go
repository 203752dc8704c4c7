/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mikeb26/armelo/elo"
)

type EloSettings struct {
	Scale        float64 `mapstructure:"scale"`
	KFactor      float64 `mapstructure:"k_factor"`
	BonusDivisor float64 `mapstructure:"bonus_divisor"`
}

type StorageSettings struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type BackupSettings struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Gzip   bool   `mapstructure:"gzip"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Elo     EloSettings     `mapstructure:"elo"`
	Storage StorageSettings `mapstructure:"storage"`
	Backup  BackupSettings  `mapstructure:"backup"`
	Log     LogSettings     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("elo.scale", elo.DefaultScale)
	v.SetDefault("elo.k_factor", elo.DefaultKFactor)
	v.SetDefault("elo.bonus_divisor", elo.DefaultBonusDivisor)
	v.SetDefault("storage.path", DefaultDBPath)
	v.SetDefault("storage.busy_timeout", "5s")
	v.SetDefault("backup.bucket", BackupBucket)
	v.SetDefault("backup.prefix", BackupPrefix)
	v.SetDefault("backup.gzip", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads settings from defaults, an optional config file and
// ARMELO_ prefixed environment variables, in increasing precedence. An
// empty path searches for armelo.toml in the working directory and
// $HOME/.config/armelo; a missing file is not an error unless path was
// given explicitly.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/armelo")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if _, err := elo.NewEngine(cfg.EloConfig()); err != nil {
		return nil, fmt.Errorf("invalid elo settings: %w", err)
	}
	if cfg.Storage.Path == "" {
		return nil, fmt.Errorf("storage.path cannot be empty")
	}

	return &cfg, nil
}

func (c *Config) EloConfig() elo.Config {
	return elo.Config{
		Scale:        c.Elo.Scale,
		KFactor:      c.Elo.KFactor,
		BonusDivisor: c.Elo.BonusDivisor,
	}
}
