package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

type Config struct {
	Root        string   `json:"root"`
	CatalogPath string   `json:"catalog_path"`
	Extensions  []string `json:"extensions"`
	ListenAddr  string   `json:"listen_addr"`
	Verbosity   int      `json:"verbosity"`
}

var defaultConfig = Config{
	Root:        ".",
	CatalogPath: "catalog.db",
	Extensions:  []string{".mscx"},
	ListenAddr:  "127.0.0.1:1234",
	Verbosity:   1,
}

func Default() Config {
	return defaultConfig
}

// Load reads JSON from r into a Config. Only fields present in the
// document overwrite the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a config file, falling back to the defaults when the
// file does not exist.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}
