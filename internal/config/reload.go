package config

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Holder keeps the active configuration and swaps it on Reload.
// Readers never see a partially applied config.
type Holder struct {
	path string
	cur  atomic.Pointer[Config]
}

// NewHolder wraps cfg, remembering the YAML path to reload from.
func NewHolder(cfg *Config, yamlPath string) *Holder {
	h := &Holder{path: yamlPath}
	h.cur.Store(cfg)
	return h
}

// Get returns the active configuration. Callers must not mutate it.
func (h *Holder) Get() *Config {
	return h.cur.Load()
}

// Reload re-reads the YAML file and environment. On any error the active
// configuration is kept.
func (h *Holder) Reload() error {
	cfg, err := LoadFrom(h.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", h.path, err)
	}
	h.cur.Store(cfg)
	slog.Info("configuration reloaded", "path", h.path, "log_level", cfg.Logging.Level)
	return nil
}
