package mdext

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdext/internal/fileutil"
	"github.com/alnah/go-mdext/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds file-based converter configuration. It covers the
// settings that make sense to externalize; rules, directives and
// passes are code and register through options.
type Config struct {
	Inline    InlineConfig    `yaml:"inline"`
	Highlight HighlightConfig `yaml:"highlight"`
	Snippets  SnippetsConfig  `yaml:"snippets"`
	RepoLinks RepoLinksConfig `yaml:"repoLinks"`
}

// InlineConfig defines inline scanning options.
type InlineConfig struct {
	MaxDepth int `yaml:"maxDepth"` // 0 = default limit
}

// HighlightConfig defines code fence highlighting options.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style name (empty = "github")
}

// SnippetsConfig defines snippet inclusion options.
type SnippetsConfig struct {
	Dir string `yaml:"dir"` // base directory (empty = snippets disabled)
}

// RepoLinksConfig defines repository shorthand auto-linking options.
type RepoLinksConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // provider name, e.g. "github"
	BaseURL  string `yaml:"baseUrl"`  // overrides the provider default
}

// DefaultConfig returns a neutral configuration with all optional
// features disabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &cfg, nil
}

// ConverterOptions translates a loaded config into converter options.
func (c *Config) ConverterOptions() []Option {
	var opts []Option
	if c.Inline.MaxDepth > 0 {
		opts = append(opts, WithMaxInlineDepth(c.Inline.MaxDepth))
	}
	if c.Highlight.Style != "" {
		opts = append(opts, WithHighlightStyle(c.Highlight.Style))
	}
	if c.Snippets.Dir != "" {
		opts = append(opts, WithSnippetResolver(NewDirSnippetResolver(c.Snippets.Dir)))
	}
	if c.RepoLinks.Enabled {
		provider := GitHubProvider
		if c.RepoLinks.Provider != "" {
			provider.Name = c.RepoLinks.Provider
		}
		if c.RepoLinks.BaseURL != "" {
			provider.BaseURL = c.RepoLinks.BaseURL
		}
		opts = append(opts, WithRepoLinks(provider))
	}
	return opts
}

// resolveConfigPath searches for a config file by name in standard
// locations. Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdext/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdext", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
