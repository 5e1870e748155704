package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/common"
)

// Account describes one bank account and the export files that feed it.
type Account struct {
	ID    string   `mapstructure:"id"`
	Name  string   `mapstructure:"name"`
	Alias string   `mapstructure:"alias"`
	Files []string `mapstructure:"files"`
}

// DisplayName returns the account name, falling back to its id.
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// Matches reports whether an export file name matches one of the account's
// file patterns.
func (a Account) Matches(file string) bool {
	base := filepath.Base(file)
	for _, pattern := range a.Files {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Import   ImportConfig   `mapstructure:"import"`
	Split    SplitConfig    `mapstructure:"split"`
	Report   ReportConfig   `mapstructure:"report"`
	Accounts []Account      `mapstructure:"accounts"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// DatabaseConfig locates the transaction database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ImportConfig controls where bank exports are read from.
type ImportConfig struct {
	ExportDir string `mapstructure:"export_dir"`
}

// SplitConfig names the two people sharing the accounts.
type SplitConfig struct {
	Person1Name       string `mapstructure:"person1_name"`
	Person2Name       string `mapstructure:"person2_name"`
	Person1Percentage int    `mapstructure:"person1_percentage"`
}

// AnalysisConfig tunes the analysis windows.
type AnalysisConfig struct {
	RecentDays int `mapstructure:"recent_days"`
}

// ReportConfig controls the Markdown report.
type ReportConfig struct {
	Output string `mapstructure:"output"`
	Charts bool   `mapstructure:"charts"`
}

// DefaultAccounts are used when no accounts are configured.
func DefaultAccounts() []Account {
	return []Account{
		{
			ID:    "team_beeb_cc",
			Name:  "Credit Card",
			Alias: "cc",
			Files: []string{"team-beeb-cc*"},
		},
		{
			ID:    "team_beeb_checking",
			Name:  "Checking",
			Alias: "checking",
			Files: []string{"team-beeb-checking*"},
		},
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "$HOME/.local/share/buddy/transactions.db")
	v.SetDefault("import.export_dir", "data/bank-exports")
	v.SetDefault("split.person1_name", "Person 1")
	v.SetDefault("split.person2_name", "Person 2")
	v.SetDefault("split.person1_percentage", 50)
	v.SetDefault("analysis.recent_days", analysis.DefaultRecentDays)
	v.SetDefault("report.output", "reports/Bank_Transaction_Report.md")
	v.SetDefault("report.charts", true)

	accounts := make([]map[string]any, 0, 2)
	for _, account := range DefaultAccounts() {
		accounts = append(accounts, map[string]any{
			"id":    account.ID,
			"name":  account.Name,
			"alias": account.Alias,
			"files": account.Files,
		})
	}
	v.SetDefault("accounts", accounts)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Import.ExportDir = ExpandPath(cfg.Import.ExportDir)
	cfg.Report.Output = ExpandPath(cfg.Report.Output)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the split percentage and the account list.
func (c *Config) Validate() error {
	if err := c.SplitParams().Validate(); err != nil {
		return fmt.Errorf("%w: split.person1_percentage: %w", common.ErrInvalidConfig, err)
	}
	if c.Analysis.RecentDays < 0 {
		return fmt.Errorf("%w: analysis.recent_days must not be negative", common.ErrInvalidConfig)
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("%w: at least one account is required", common.ErrMissingConfig)
	}

	// Ids and aliases share one namespace since either selects an account.
	owners := make(map[string]string)
	for i, account := range c.Accounts {
		if strings.TrimSpace(account.ID) == "" {
			return fmt.Errorf("%w: accounts[%d] has no id", common.ErrInvalidConfig, i)
		}

		keys := []string{account.ID}
		if account.Alias != "" && account.Alias != account.ID {
			keys = append(keys, account.Alias)
		}
		for _, key := range keys {
			if owner, dup := owners[key]; dup {
				return fmt.Errorf("%w: %q is used by accounts %s and %s", common.ErrInvalidConfig, key, owner, account.ID)
			}
			owners[key] = account.ID
		}
	}

	return nil
}

// SplitParams returns the split configuration as analysis parameters.
func (c *Config) SplitParams() analysis.SplitParams {
	return analysis.SplitParams{
		Person1Name:       c.Split.Person1Name,
		Person2Name:       c.Split.Person2Name,
		Person1Percentage: c.Split.Person1Percentage,
	}
}

// Account looks up an account by id or alias.
func (c *Config) Account(key string) (Account, bool) {
	for _, account := range c.Accounts {
		if account.ID == key || (account.Alias != "" && account.Alias == key) {
			return account, true
		}
	}
	return Account{}, false
}

// SelectAccounts resolves ids or aliases to accounts. No keys, or the key
// "all", selects every configured account.
func (c *Config) SelectAccounts(keys ...string) ([]Account, error) {
	if len(keys) == 0 || (len(keys) == 1 && keys[0] == "all") {
		return c.Accounts, nil
	}

	selected := make([]Account, 0, len(keys))
	for _, key := range keys {
		account, ok := c.Account(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrUnknownAccount, key)
		}
		selected = append(selected, account)
	}
	return selected, nil
}
