package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, loaded from a YAML file with
// environment variable overrides. Secrets (API key, JWT secret, DEK) are
// env-only and never live in the file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Bundle  BundleConfig  `yaml:"bundle"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	LogFile    string `yaml:"log_file"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type BundleConfig struct {
	SignManifest bool `yaml:"sign_manifest"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{ListenAddr: ":8080", LogFile: "logs/evidenceos.log"},
		Storage: StorageConfig{Path: "./evidenceos_db"},
		Bundle:  BundleConfig{SignManifest: true},
	}
}

// Load reads the YAML config at path on top of the defaults and applies env
// overrides. A missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv("EVIDENCE_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("EVIDENCE_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("EVIDENCE_LOG_FILE"); v != "" {
		cfg.Server.LogFile = v
	}
	return cfg, nil
}
