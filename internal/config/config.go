package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is app-level configuration shared by every session. Per-account
// connection settings live in Connection records instead.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
}

type DefaultsConfig struct {
	Session    string `mapstructure:"session" yaml:"session"`
	Mailbox    string `mapstructure:"mailbox" yaml:"mailbox"`
	FetchLimit int    `mapstructure:"fetch_limit" yaml:"fetch_limit"`
}

type NetworkConfig struct {
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Session:    "default",
			Mailbox:    "INBOX",
			FetchLimit: 50,
		},
	}
}

func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MAILTAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func Save(cfg Config) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("defaults.session", cfg.Defaults.Session)
	v.SetDefault("defaults.mailbox", cfg.Defaults.Mailbox)
	v.SetDefault("defaults.fetch_limit", cfg.Defaults.FetchLimit)
	v.SetDefault("network.insecure_skip_verify", cfg.Network.InsecureSkipVerify)
}
