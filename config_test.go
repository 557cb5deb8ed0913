package mdext

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
inline:
  maxDepth: 50
highlight:
  style: monokai
snippets:
  dir: /srv/snippets
repoLinks:
  enabled: true
  provider: gitea
  baseUrl: https://git.example.com
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Inline.MaxDepth != 50 {
		t.Errorf("Inline.MaxDepth = %d, want 50", cfg.Inline.MaxDepth)
	}
	if cfg.Highlight.Style != "monokai" {
		t.Errorf("Highlight.Style = %q, want monokai", cfg.Highlight.Style)
	}
	if cfg.Snippets.Dir != "/srv/snippets" {
		t.Errorf("Snippets.Dir = %q", cfg.Snippets.Dir)
	}
	if !cfg.RepoLinks.Enabled || cfg.RepoLinks.BaseURL != "https://git.example.com" {
		t.Errorf("RepoLinks = %+v", cfg.RepoLinks)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "inline:\n  maxDepth: 10\nmystery: true\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "inline: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})
}

func TestConfigConverterOptions(t *testing.T) {
	t.Parallel()

	t.Run("neutral config yields no options", func(t *testing.T) {
		t.Parallel()

		if opts := DefaultConfig().ConverterOptions(); len(opts) != 0 {
			t.Errorf("options = %d, want 0", len(opts))
		}
	})

	t.Run("full config yields working converter", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{
			Inline:    InlineConfig{MaxDepth: 20},
			Highlight: HighlightConfig{Style: "monokai"},
			RepoLinks: RepoLinksConfig{Enabled: true, BaseURL: "https://git.example.com"},
		}
		opts := cfg.ConverterOptions()
		if len(opts) != 3 {
			t.Fatalf("options = %d, want 3", len(opts))
		}
		conv, err := NewConverter(opts...)
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
		result := convert(t, conv, "see octo/repo#5")
		if want := "https://git.example.com/octo/repo/issues/5"; !strings.Contains(string(result.HTML), want) {
			t.Errorf("output missing %q: %s", want, result.HTML)
		}
	})
}
