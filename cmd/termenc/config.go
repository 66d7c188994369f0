package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const defaultConfigFile = "termenc.toml"

// Config is the termenc.toml file. Command-line flags override it.
type Config struct {
	Target TargetConfig `toml:"target"`
	Log    LogConfig    `toml:"log"`
	Atoms  AtomsConfig  `toml:"atoms"`
}

type TargetConfig struct {
	Triple string `toml:"triple"`
}

// AtomsConfig configures atom table generation and lookup.
type AtomsConfig struct {
	Output string   `toml:"output"`
	Format string   `toml:"format"`
	Table  string   `toml:"table"`
	Names  []string `toml:"names"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

func defaultConfig() Config {
	return Config{
		Atoms: AtomsConfig{Output: "atoms.wasm", Format: "wasm"},
		Log:   LogConfig{Level: "warn"},
	}
}

// loadConfig reads path, or termenc.toml in the working directory when path
// is empty. A missing default file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// newLogger builds the process logger from the [log] section.
func newLogger(c LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		level, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}
