package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"tms/internal/discovery"
)

// ErrNoSearchDirs is returned when the configuration names no search roots.
var ErrNoSearchDirs = errors.New("no search_dirs configured; add at least one to the config file")

// DefaultDepth is used for search dirs without an explicit ":depth" suffix.
const DefaultDepth = 10

// ColorConfig is the optional 5-slot picker theme. Empty slots fall back to
// the documented defaults in Defaults().
type ColorConfig struct {
	HighlightBg   string `toml:"highlight_bg,omitempty"`   // default "2" (green)
	HighlightText string `toml:"highlight_text,omitempty"` // default "0" (black)
	Border        string `toml:"border,omitempty"`         // default "240" (gray)
	Info          string `toml:"info,omitempty"`           // default "105" (violet)
	Prompt        string `toml:"prompt,omitempty"`         // default "12" (light blue)
}

// Defaults fills every empty slot with its default color.
func (c ColorConfig) Defaults() ColorConfig {
	fill := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return ColorConfig{
		HighlightBg:   fill(c.HighlightBg, "2"),
		HighlightText: fill(c.HighlightText, "0"),
		Border:        fill(c.Border, "240"),
		Info:          fill(c.Info, "105"),
		Prompt:        fill(c.Prompt, "12"),
	}
}

// Config is the on-disk configuration. Search dirs may carry a per-root
// depth as a ":<n>" suffix; depth 0 means "test this path only".
type Config struct {
	SearchDirs          []string          `toml:"search_dirs"`
	ExcludedDirs        []string          `toml:"excluded_dirs,omitempty"`
	DefaultSession      string            `toml:"default_session,omitempty"`
	DisplayFullPath     bool              `toml:"display_full_path,omitempty"`
	SearchSubmodules    bool              `toml:"search_submodules,omitempty"`
	RecursiveSubmodules bool              `toml:"recursive_submodules,omitempty"`
	IncludeNonGit       bool              `toml:"include_non_git,omitempty"`
	InputPosition       string            `toml:"input_position,omitempty"` // "top" | "bottom"
	Colors              *ColorConfig      `toml:"colors,omitempty"`
	Keymap              map[string]string `toml:"keymap,omitempty"` // key -> action name
	Marks               map[string]string `toml:"marks,omitempty"`  // index -> path

	path string `toml:"-"`
}

// DefaultPath returns the user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "tms", "config.toml"), nil
}

// Load reads the config from its default location. A missing file yields an
// empty default config rather than an error.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from path, falling back to defaults when the
// file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SearchRoots expands and parses the configured search dirs. Zero roots is
// an error the caller should surface verbatim.
func (c *Config) SearchRoots() ([]discovery.SearchRoot, error) {
	if len(c.SearchDirs) == 0 {
		return nil, ErrNoSearchDirs
	}

	roots := make([]discovery.SearchRoot, 0, len(c.SearchDirs))
	for _, dir := range c.SearchDirs {
		path, depth, err := parseSearchDir(dir)
		if err != nil {
			return nil, err
		}
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		roots = append(roots, discovery.SearchRoot{Path: expanded, Depth: depth})
	}
	return roots, nil
}

func parseSearchDir(dir string) (string, int, error) {
	path, suffix, found := cutLast(dir, ':')
	if !found {
		return dir, DefaultDepth, nil
	}
	depth, err := strconv.Atoi(suffix)
	if err != nil || depth < 0 {
		return "", 0, fmt.Errorf("search dir %q: depth suffix %q is not a non-negative integer", dir, suffix)
	}
	return path, depth, nil
}

func cutLast(s string, sep byte) (string, string, bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// ExpandPath resolves a leading ~ and environment variables in a configured
// path.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
