package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"quotabalance/internal/core"
)

type OutputConfig struct {
	WarnThreshold float64 `json:"warn_threshold"`
	CritThreshold float64 `json:"crit_threshold"`
	Pretty        bool    `json:"pretty"`
}

type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type Config struct {
	FetchTimeoutSeconds int                  `json:"fetch_timeout_seconds"`
	Output              OutputConfig         `json:"output"`
	History             HistoryConfig        `json:"history"`
	Accounts            []core.AccountConfig `json:"accounts"`
}

func DefaultConfig() Config {
	return Config{
		FetchTimeoutSeconds: 15,
		Output: OutputConfig{
			WarnThreshold: 0.20,
			CritThreshold: 0.05,
		},
		History: HistoryConfig{Enabled: true},
		Accounts: []core.AccountConfig{
			{ID: "antigravity-default", Provider: core.ProviderAntigravity},
			{ID: "gemini-cli-default", Provider: core.ProviderGeminiCLI},
			{ID: "codex-default", Provider: core.ProviderCodex},
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "quotabalance")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quotabalance")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func HistoryPath(cfg Config) string {
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	return filepath.Join(ConfigDir(), "history.db")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the settings file, applying defaults for anything missing.
// A missing file is not an error: the defaults poll one account per known
// provider.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = 15
	}
	if cfg.Output.WarnThreshold <= 0 {
		cfg.Output.WarnThreshold = 0.20
	}
	if cfg.Output.CritThreshold <= 0 {
		cfg.Output.CritThreshold = 0.05
	}
	if len(cfg.Accounts) == 0 {
		cfg.Accounts = DefaultConfig().Accounts
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
