package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/session"
)

// loadLibrary loads the config at configPath and returns a library whose
// relative dataset paths resolve against the config's directory.
func loadLibrary(configPath string) (*session.Library, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	loader := dataset.NewLoader(filepath.Dir(configPath))
	return session.NewLibrary(cfg, loader), nil
}

// fieldsOrDefault returns fields when the user named any, the configured
// defaults otherwise.
func fieldsOrDefault(fields []string, cfg *config.Config) []string {
	if len(fields) > 0 {
		return fields
	}
	return cfg.Search.DefaultFields
}
