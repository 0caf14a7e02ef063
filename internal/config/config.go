package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bashhack/dirtrack/internal/errors"
	"github.com/bashhack/dirtrack/internal/snapshot"
)

const (
	// DefaultIntervalSeconds is the pause between checks in daemon mode.
	DefaultIntervalSeconds = 1800

	// DefaultMaxPreview is the number of paths listed per change category
	// in log summaries before the rest are collapsed into a count.
	DefaultMaxPreview = 20

	// DefaultCommitPrefix starts every commit message:
	// "Auto-commit: 2026-10-18 10:00:00 - Added: 2; Modified: 1"
	DefaultCommitPrefix = "Auto-commit"

	// envPrefix namespaces every environment variable read by LoadFromEnvironment.
	envPrefix = "DIRTRACK_"
)

// Config holds all dirtrack application settings.
// Values are layered: defaults, then a YAML config file, then the
// environment, then command-line flags.
type Config struct {
	// Tracking targets

	// WatchDir is the directory tree to track. It should be a git work tree.
	WatchDir string

	// StateFile stores the last snapshot. Keep it outside WatchDir.
	StateFile string

	// LogFile receives the append-only event log. Keep it outside WatchDir.
	LogFile string

	// Scheduling

	// IntervalSeconds is the pause between checks in daemon mode.
	IntervalSeconds int

	// Daemon runs checks continuously until interrupted.
	Daemon bool

	// Once runs a single check and exits. It is the default mode.
	Once bool

	// WatchEvents wakes the daemon early when files change.
	WatchEvents bool

	// Scanning and committing

	// Excludes lists directory names that are skipped at any depth.
	Excludes []string

	// MaxPreview caps the paths listed per category in change summaries.
	MaxPreview int

	// CommitPrefix starts every commit message.
	CommitPrefix string

	// Push runs `git push` after each successful commit.
	Push bool

	// MaxSkipped fails a check when more files than this could not be read.
	// Zero disables the limit.
	MaxSkipped int

	// Output

	// Debug writes diagnostic records to the log file.
	Debug bool

	// Verbose echoes informational log lines to stdout.
	Verbose bool

	// ConfigFile is the YAML file loaded before the environment and flags.
	ConfigFile string

	// Version prints version information and exits.
	Version bool

	// Build metadata

	// VersionInfo contains version, commit, and build date information.
	// This is typically injected at build time.
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	// Version is the semantic version number (e.g., "v1.2.3").
	Version string

	// Commit is the Git commit hash from which the binary was built.
	Commit string

	// Date is the build timestamp in human-readable format.
	Date string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		IntervalSeconds: DefaultIntervalSeconds,
		Excludes:        append([]string(nil), snapshot.DefaultExcludes...),
		MaxPreview:      DefaultMaxPreview,
		CommitPrefix:    DefaultCommitPrefix,
		Push:            true,
		Verbose:         true,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// fileConfig mirrors the YAML config file. Pointer fields distinguish an
// absent key from an explicit zero value.
type fileConfig struct {
	WatchDir     *string   `yaml:"watch_dir"`
	StateFile    *string   `yaml:"state_file"`
	LogFile      *string   `yaml:"log_file"`
	Interval     *int      `yaml:"interval"`
	Daemon       *bool     `yaml:"daemon"`
	Once         *bool     `yaml:"once"`
	WatchEvents  *bool     `yaml:"watch_events"`
	Exclude      *[]string `yaml:"exclude"`
	MaxPreview   *int      `yaml:"max_preview"`
	CommitPrefix *string   `yaml:"commit_prefix"`
	Push         *bool     `yaml:"push"`
	MaxSkipped   *int      `yaml:"max_skipped"`
	Debug        *bool     `yaml:"debug"`
	Verbose      *bool     `yaml:"verbose"`
}

// LoadFile applies the settings in the YAML file at path. Keys missing from
// the file leave the current values untouched; unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return errors.NewConfigError("config-file", path, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return errors.NewConfigError("config-file", path, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}

	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return errors.NewConfigError("config-file", path,
			errors.Wrapf(errors.ErrInvalidConfiguration, "failed to parse YAML: %v", err))
	}

	setString(&c.WatchDir, fc.WatchDir)
	setString(&c.StateFile, fc.StateFile)
	setString(&c.LogFile, fc.LogFile)
	setInt(&c.IntervalSeconds, fc.Interval)
	setBool(&c.Daemon, fc.Daemon)
	setBool(&c.Once, fc.Once)
	setBool(&c.WatchEvents, fc.WatchEvents)
	if fc.Exclude != nil {
		c.Excludes = append([]string{}, (*fc.Exclude)...)
	}
	setInt(&c.MaxPreview, fc.MaxPreview)
	setString(&c.CommitPrefix, fc.CommitPrefix)
	setBool(&c.Push, fc.Push)
	setInt(&c.MaxSkipped, fc.MaxSkipped)
	setBool(&c.Debug, fc.Debug)
	setBool(&c.Verbose, fc.Verbose)

	c.ConfigFile = expanded
	return nil
}

// LoadFromEnvironment updates config from DIRTRACK_* environment variables
func (c *Config) LoadFromEnvironment() {
	c.WatchDir = getEnvString("WATCH_DIR", c.WatchDir)
	c.StateFile = getEnvString("STATE_FILE", c.StateFile)
	c.LogFile = getEnvString("LOG_FILE", c.LogFile)
	c.IntervalSeconds = getEnvInt("INTERVAL", c.IntervalSeconds)
	c.Daemon = getEnvBool("DAEMON", c.Daemon)
	c.Once = getEnvBool("ONCE", c.Once)
	c.WatchEvents = getEnvBool("WATCH_EVENTS", c.WatchEvents)
	c.Excludes = getEnvList("EXCLUDE", c.Excludes)
	c.MaxPreview = getEnvInt("MAX_PREVIEW", c.MaxPreview)
	c.CommitPrefix = getEnvString("COMMIT_PREFIX", c.CommitPrefix)
	c.Push = getEnvBool("PUSH", c.Push)
	c.MaxSkipped = getEnvInt("MAX_SKIPPED", c.MaxSkipped)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)
}

// ConfigFileFromEnvironment returns DIRTRACK_CONFIG_FILE, if set.
func ConfigFileFromEnvironment() string {
	return getEnvString("CONFIG_FILE", "")
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	required := []struct {
		name  string
		value *string
	}{
		{"watch-dir", &c.WatchDir},
		{"state-file", &c.StateFile},
		{"log-file", &c.LogFile},
	}
	for _, r := range required {
		if strings.TrimSpace(*r.value) == "" {
			return errors.NewConfigError(r.name, nil, errors.Wrap(errors.ErrInvalidConfiguration, "a value is required"))
		}

		expanded, err := expandPath(*r.value)
		if err != nil {
			return errors.NewConfigError(r.name, *r.value, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return errors.NewConfigError(r.name, *r.value,
				errors.Wrapf(errors.ErrInvalidConfiguration, "failed to resolve absolute path: %v", err))
		}
		*r.value = abs
	}

	if c.IntervalSeconds <= 0 {
		return errors.NewConfigError("interval", c.IntervalSeconds,
			errors.Wrap(errors.ErrInvalidConfiguration, "must be greater than 0"))
	}
	if c.MaxPreview < 0 {
		return errors.NewConfigError("max-preview", c.MaxPreview,
			errors.Wrap(errors.ErrInvalidConfiguration, "cannot be negative"))
	}
	if c.MaxSkipped < 0 {
		return errors.NewConfigError("max-skipped", c.MaxSkipped,
			errors.Wrap(errors.ErrInvalidConfiguration, "cannot be negative"))
	}
	if strings.TrimSpace(c.CommitPrefix) == "" {
		return errors.NewConfigError("commit-prefix", nil,
			errors.Wrap(errors.ErrInvalidConfiguration, "must not be empty"))
	}

	excludes := make([]string, 0, len(c.Excludes))
	for _, name := range c.Excludes {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
			return errors.NewConfigError("exclude", name,
				errors.Wrap(errors.ErrInvalidConfiguration, "must be a directory name, not a path"))
		}
		excludes = append(excludes, name)
	}
	// Configured names extend the defaults; .git is never tracked.
	c.Excludes = snapshot.MergeExcludes(excludes)

	// Daemon wins when both modes are requested; neither means once.
	if c.Daemon {
		c.Once = false
	} else {
		c.Once = true
	}

	return nil
}

// Interval returns the daemon pause as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// expandPath replaces a leading "~" with the user's home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default value
func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(envPrefix + key); exists {
		if value, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(envPrefix + key); exists {
		valueLower := strings.ToLower(strings.TrimSpace(valueStr))
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a list or a
// default value. An empty variable yields an empty list.
func getEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return defaultValue
	}

	values := []string{}
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
