package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig holds optional user-wide defaults read from ~/.vsr/config.toml.
// Command-line flags override whatever is set here.
type AppConfig struct {
	// DefaultView is the view kind assigned to sets that have no saved
	// preference yet: "table", "bars", or "tree".
	DefaultView string `toml:"default_view"`
	// NoColor disables ANSI styling in the interactive viewer.
	NoColor bool `toml:"no_color"`
	// StoreDir overrides the saved-preference directory.
	StoreDir string `toml:"store_dir"`
	// RowBudget caps the rows shown per data set when no --limit or --tail
	// flag is given. Zero means no cap.
	RowBudget int `toml:"row_budget"`
	// LogLevel raises verbosity; values above zero enable debug output.
	LogLevel int8 `toml:"log_level"`
}

// DefaultAppConfigPath returns ~/.vsr/config.toml.
func DefaultAppConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".vsr", "config.toml"), nil
}

// LoadAppConfig reads the config file at path. A missing file is not an
// error and yields the zero config, so first runs need no setup.
func LoadAppConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// View converts the configured default view name into a ViewKind, falling
// back to the table view for unknown names.
func (c AppConfig) View() ViewKind {
	return Preference{View: ViewKind(c.DefaultView), Slide: 1}.Normalize().View
}
