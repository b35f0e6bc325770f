package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the repodump configuration.
type Config struct {
	Commits int           `yaml:"commits" json:"commits"`
	Ignore  []string      `yaml:"ignore,omitempty" json:"ignore"`
	Format  string        `yaml:"format" json:"format"`
	Logging Logging       `yaml:"logging" json:"logging"`
	Privacy PrivacyConfig `yaml:"privacy" json:"privacy"`
}

// Logging configures diagnostic logging on stderr.
type Logging struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// PrivacyConfig controls redaction of exported file content.
type PrivacyConfig struct {
	RedactSecrets bool     `yaml:"redactSecrets" json:"redactSecrets"`
	RedactPaths   []string `yaml:"redactPaths,omitempty" json:"redactPaths,omitempty"`
}

// Formats lists the accepted output formats.
var Formats = []string{"text", "markdown", "md", "json"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Commits: 25,
		Format:  "text",
		Logging: Logging{
			Level:  "warn",
			Format: "text",
		},
		Privacy: PrivacyConfig{
			RedactPaths: []string{"**/.env", "**/*.pem", "**/id_rsa"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for repodump.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "repodump"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "repodump"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "repodump"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "repodump"), nil
	default:
		return filepath.Join(home, ".config", "repodump"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return ConfigPath()
}

// LoadFile loads config from path, or from the default location when path is
// empty. A missing default file yields a zero Config and nil error; a missing
// explicit file is an error.
func LoadFile(path string) (Config, error) {
	cfg, _, err := loadFile(path)
	return cfg, err
}

// loadFile is LoadFile that also reports which dotted keys the file sets, so
// zero values written explicitly are not mistaken for unset ones.
func loadFile(path string) (Config, map[string]bool, error) {
	explicit := path != ""
	path, err := resolvePath(path)
	if err != nil {
		return Config{}, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil, nil
		}
		return Config{}, nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	present := make(map[string]bool)
	collectKeys("", raw, present)
	return cfg, present, nil
}

func collectKeys(prefix string, m map[string]any, present map[string]bool) {
	for k, v := range m {
		key := prefix + k
		present[key] = true
		if nested, ok := v.(map[string]any); ok {
			collectKeys(key+".", nested, present)
		}
	}
}

// Save writes cfg to path, or to the default location when path is empty.
func Save(path string, cfg Config) error {
	path, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only flags the user set should be present).
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, present, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg, present)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the merged values are usable.
func (c Config) Validate() error {
	if c.Commits < 0 {
		return fmt.Errorf("commits must not be negative, got %d", c.Commits)
	}
	if !validFormat(c.Format) {
		return fmt.Errorf("unsupported format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// mergeFile applies non-zero file values, plus any key listed in present
// even when its value is zero.
func mergeFile(dst *Config, src Config, present map[string]bool) {
	if src.Commits > 0 || present["commits"] {
		dst.Commits = src.Commits
	}
	if len(src.Ignore) > 0 {
		dst.Ignore = src.Ignore
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	if src.Logging.File != "" {
		dst.Logging.File = src.Logging.File
	}
	if src.Privacy.RedactSecrets || present["privacy.redactSecrets"] {
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("REPODUMP_COMMITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REPODUMP_COMMITS must be an integer: %w", err)
		}
		cfg.Commits = n
	}
	if v := os.Getenv("REPODUMP_IGNORE"); v != "" {
		cfg.Ignore = append(cfg.Ignore, splitList(v)...)
	}
	if v := os.Getenv("REPODUMP_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("REPODUMP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REPODUMP_REDACT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REPODUMP_REDACT must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["commits"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("commits must be an integer: %w", err)
		}
		cfg.Commits = n
	}
	if v, ok := overrides["ignore"]; ok && v != "" {
		cfg.Ignore = append(cfg.Ignore, splitList(v)...)
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["logLevel"]; ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := overrides["redact"]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("redact must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "commits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("commits must be an integer: %w", err)
		}
		cfg.Commits = n
	case "ignore":
		cfg.Ignore = splitList(value)
	case "format":
		if !validFormat(value) {
			return fmt.Errorf("unsupported format %q", value)
		}
		cfg.Format = value
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.format":
		cfg.Logging.Format = value
	case "logging.file":
		cfg.Logging.File = value
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "privacy.redactPaths":
		cfg.Privacy.RedactPaths = splitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
