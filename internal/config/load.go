package config

import (
	"fmt"

	"github.com/yndnr/exitguard/internal/infra/confloader"
)

// Load builds the configuration from defaults, the optional file at path,
// the environment and finally overrides (dotted keys, usually from flags).
// The returned loader can reload the same sources later.
func Load(path string, overrides map[string]any) (*Config, *confloader.Loader, error) {
	l := confloader.NewLoader(confloader.WithConfigFile(path))
	cfg, err := load(l.Load, l, overrides)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}

// Reload rereads every source of l onto fresh defaults.
func Reload(l *confloader.Loader, overrides map[string]any) (*Config, error) {
	return load(l.Reload, l, overrides)
}

func load(read func(any) error, l *confloader.Loader, overrides map[string]any) (*Config, error) {
	cfg := Default()
	if err := read(cfg); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal overrides: %w", err)
		}
	}
	return cfg, nil
}
