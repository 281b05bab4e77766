package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for vhdp-lint
type Config struct {
	// Files is an explicit list of files with optional library/language overrides
	Files []FileEntry `json:"files,omitempty"`

	// Libraries maps library names to their configuration
	Libraries map[string]LibraryConfig `json:"libraries,omitempty"`

	// Lint contains linting rule configuration
	Lint LintConfig `json:"lint,omitempty"`

	// Analysis contains analysis options
	Analysis AnalysisConfig `json:"analysis,omitempty"`

	// Policy points at additional rego policies
	Policy PolicyConfig `json:"policy,omitempty"`

	// Output controls how results are reported
	Output OutputConfig `json:"output,omitempty"`
}

// LibraryConfig defines a group of source files and options
type LibraryConfig struct {
	// Files is a list of glob patterns for VHDP and VHDL files in this library
	Files []string `json:"files"`

	// Exclude is a list of glob patterns to exclude from this library
	Exclude []string `json:"exclude,omitempty"`

	// IsThirdParty marks the library as third-party (diagnostics are not reported)
	IsThirdParty bool `json:"isThirdParty,omitempty"`
}

// FileEntry is an explicit file entry with optional library and language metadata
type FileEntry struct {
	File         string `json:"file"`
	Library      string `json:"library,omitempty"`
	Language     string `json:"language,omitempty"`
	IsThirdParty bool   `json:"isThirdParty,omitempty"`
}

// LintConfig contains linting configuration
type LintConfig struct {
	// Rules maps rule ids to severity: "off", "hint", "warning", "error"
	Rules map[string]string `json:"rules,omitempty"`

	// IgnorePatterns is a list of file patterns to skip linting entirely
	IgnorePatterns []string `json:"ignorePatterns,omitempty"`
}

// CacheConfig controls the analysis result cache
type CacheConfig struct {
	// Enabled turns on cache usage
	Enabled *bool `json:"enabled,omitempty"`

	// Dir is the cache directory (relative to project root if not absolute)
	Dir string `json:"dir,omitempty"`
}

// AnalysisConfig contains analysis options
type AnalysisConfig struct {
	// MaxParallelFiles limits concurrent file processing (0 = auto)
	MaxParallelFiles int `json:"maxParallelFiles,omitempty"`

	// MathReal includes ieee.math_real in every file
	MathReal bool `json:"mathReal,omitempty"`

	// Cache controls the analysis result cache
	Cache CacheConfig `json:"cache,omitempty"`
}

// PolicyConfig locates user policies
type PolicyConfig struct {
	// Dir holds extra .rego files evaluated next to the built-in policy
	Dir string `json:"dir,omitempty"`
}

// OutputConfig controls reporting
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `json:"format,omitempty"`

	// Timing is a JSONL file receiving per-stage timing events
	Timing string `json:"timing,omitempty"`
}

var defaultPatterns = []string{
	"*.vhdp", "*.ghdp", "*.vhd", "*.vhdl",
	"**/*.vhdp", "**/*.ghdp", "**/*.vhd", "**/*.vhdl",
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Libraries: map[string]LibraryConfig{
			"work": {
				Files:   append([]string(nil), defaultPatterns...),
				Exclude: []string{},
			},
		},
		Lint: LintConfig{
			Rules:          map[string]string{},
			IgnorePatterns: []string{},
		},
		Analysis: AnalysisConfig{
			Cache: CacheConfig{
				Enabled: boolPtr(true),
				Dir:     ".vhdp_lint_cache",
			},
		},
		Output: OutputConfig{Format: "text"},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file
// Search order:
//  1. ./vhdp_lint.json (current working directory)
//  2. ./.vhdp_lint.json (current working directory)
//  3. <rootPath>/vhdp_lint.json (if different from cwd)
//  4. <rootPath>/.vhdp_lint.json
//  5. ~/.config/vhdp_lint/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "vhdp_lint.json"),
		filepath.Join(cwd, ".vhdp_lint.json"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "vhdp_lint.json"),
				filepath.Join(rootPath, ".vhdp_lint.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "vhdp_lint", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Libraries == nil {
		if len(c.Files) == 0 {
			c.Libraries = map[string]LibraryConfig{
				"work": {Files: append([]string(nil), defaultPatterns...)},
			}
		} else {
			c.Libraries = map[string]LibraryConfig{}
		}
	}

	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}

	if c.Analysis.Cache.Dir == "" {
		c.Analysis.Cache.Dir = ".vhdp_lint_cache"
	}
	if c.Analysis.Cache.Enabled == nil {
		c.Analysis.Cache.Enabled = boolPtr(true)
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CacheEnabled reports whether analysis results may be cached.
func (c *Config) CacheEnabled() bool {
	return c.Analysis.Cache.Enabled == nil || *c.Analysis.Cache.Enabled
}

// CacheDir is the cache directory resolved against rootPath.
func (c *Config) CacheDir(rootPath string) string {
	if filepath.IsAbs(c.Analysis.Cache.Dir) {
		return c.Analysis.Cache.Dir
	}
	return filepath.Join(rootPath, c.Analysis.Cache.Dir)
}

// GetRuleSeverity returns the severity for a rule, or the default if not configured
func (c *Config) GetRuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity != "off"
	}
	return true
}

// IsThirdPartyFile checks if a file belongs to a third-party library
func (c *Config) IsThirdPartyFile(filePath string) bool {
	for _, entry := range c.Files {
		if entry.File == "" {
			continue
		}
		if matchPath(entry.File, filePath) {
			return entry.IsThirdParty
		}
	}
	for _, lib := range c.Libraries {
		if !lib.IsThirdParty {
			continue
		}
		for _, pattern := range lib.Files {
			if matchPath(pattern, filePath) {
				return true
			}
		}
	}
	return false
}

// ShouldIgnoreFile checks if a file should be skipped entirely
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.Lint.IgnorePatterns {
		if matchPath(pattern, filePath) {
			return true
		}
	}
	return false
}

// matchPath matches pattern against the full path, then the base name.
func matchPath(pattern, filePath string) bool {
	if matched, _ := filepath.Match(pattern, filePath); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, filepath.Base(filePath))
	return matched
}
