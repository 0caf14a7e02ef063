package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/bashhack/dirtrack/internal/config"
)

// parseArgs runs args through the real flag set and returns the layered config.
func parseArgs(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	cfg := config.New()
	cmd := &cli.Command{
		Name:        "dirtrack",
		HideVersion: true,
		Flags:       globalFlags(),
		Writer:      os.Stdout,
		ErrWriter:   os.Stderr,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return loadConfig(cfg, cmd)
		},
	}
	err := cmd.Run(context.Background(), append([]string{"dirtrack"}, args...))
	return cfg, err
}

func TestLoadConfigFlags(t *testing.T) {
	tests := map[string]struct {
		args     []string
		validate func(t *testing.T, cfg *config.Config)
	}{
		"Defaults": {
			args: nil,
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.DefaultIntervalSeconds, cfg.IntervalSeconds)
				assert.Equal(t, config.DefaultMaxPreview, cfg.MaxPreview)
				assert.Equal(t, config.DefaultCommitPrefix, cfg.CommitPrefix)
				assert.Equal(t, []string{".git"}, cfg.Excludes)
				assert.True(t, cfg.Push)
				assert.True(t, cfg.Verbose)
				assert.False(t, cfg.Daemon)
				assert.False(t, cfg.Version)
			},
		},
		"Paths": {
			args: []string{"--watch-dir", "/srv/notes", "--state-file", "/var/lib/dirtrack/state.json", "--log-file", "/var/log/dirtrack.log"},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "/srv/notes", cfg.WatchDir)
				assert.Equal(t, "/var/lib/dirtrack/state.json", cfg.StateFile)
				assert.Equal(t, "/var/log/dirtrack.log", cfg.LogFile)
			},
		},
		"Scheduling": {
			args: []string{"--daemon", "--interval", "60", "--watch-events"},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.Daemon)
				assert.Equal(t, 60, cfg.IntervalSeconds)
				assert.True(t, cfg.WatchEvents)
			},
		},
		"RepeatedExclude": {
			args: []string{"--exclude", "node_modules", "--exclude", ".venv"},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []string{"node_modules", ".venv"}, cfg.Excludes)

				cfg.WatchDir, cfg.StateFile, cfg.LogFile = "/srv/notes", "/tmp/state.json", "/tmp/dirtrack.log"
				require.NoError(t, cfg.Finalize())
				assert.Equal(t, []string{".git", "node_modules", ".venv"}, cfg.Excludes)
			},
		},
		"CommitSettings": {
			args: []string{"--commit-prefix", "Snapshot", "--no-push", "--max-preview", "3", "--max-skipped", "7"},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "Snapshot", cfg.CommitPrefix)
				assert.False(t, cfg.Push)
				assert.Equal(t, 3, cfg.MaxPreview)
				assert.Equal(t, 7, cfg.MaxSkipped)
			},
		},
		"Output": {
			args: []string{"--debug", "--quiet"},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.Debug)
				assert.False(t, cfg.Verbose)
			},
		},
		"Version": {
			args: []string{"--version"},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.Version)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnvironment(t)

			cfg, err := parseArgs(t, tc.args...)
			require.NoError(t, err)
			tc.validate(t, cfg)
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	clearEnvironment(t)

	configFile := filepath.Join(t.TempDir(), "dirtrack.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
watch_dir: /from/yaml
interval: 10
commit_prefix: YAML
max_preview: 5
exclude: [build]
`), 0o644))

	t.Setenv("DIRTRACK_INTERVAL", "20")
	t.Setenv("DIRTRACK_COMMIT_PREFIX", "ENV")

	cfg, err := parseArgs(t, "--config-file", configFile, "--interval", "30")
	require.NoError(t, err)

	assert.Equal(t, "/from/yaml", cfg.WatchDir)
	assert.Equal(t, 5, cfg.MaxPreview)
	assert.Equal(t, []string{"build"}, cfg.Excludes)
	assert.Equal(t, "ENV", cfg.CommitPrefix)
	assert.Equal(t, 30, cfg.IntervalSeconds)
	assert.Equal(t, configFile, cfg.ConfigFile)
}

func TestLoadConfigFileFromEnvironment(t *testing.T) {
	clearEnvironment(t)

	configFile := filepath.Join(t.TempDir(), "dirtrack.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("daemon: true\n"), 0o644))
	t.Setenv("DIRTRACK_CONFIG_FILE", configFile)

	cfg, err := parseArgs(t)
	require.NoError(t, err)
	assert.True(t, cfg.Daemon)
}

func TestLoadConfigRejectsBadConfigFile(t *testing.T) {
	clearEnvironment(t)

	configFile := filepath.Join(t.TempDir(), "dirtrack.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("no_such_key: 1\n"), 0o644))

	_, err := parseArgs(t, "--config-file", configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config-file")
}

func TestRunExitCodes(t *testing.T) {
	tests := map[string]struct {
		args         func(ta *testApp) []string
		setup        func(ta *testApp)
		expectCode   int
		expectStdout string
		expectStderr string
		rejectStderr string
	}{
		"Success": {
			args: func(ta *testApp) []string {
				return []string{"--watch-dir", ta.Config.WatchDir}
			},
			expectCode: 0,
		},
		"Version": {
			args: func(ta *testApp) []string {
				return []string{"--version"}
			},
			expectCode:   0,
			expectStdout: "dirtrack 1.2.3",
		},
		"MissingWatchDir": {
			args: func(ta *testApp) []string {
				return []string{"--watch-dir", filepath.Join(filepath.Dir(ta.Config.WatchDir), "missing")}
			},
			expectCode:   1,
			expectStderr: "Error: watch-dir does not exist",
		},
		"BadInterval": {
			args: func(ta *testApp) []string {
				return []string{"--interval", "0"}
			},
			expectCode:   1,
			expectStderr: "Error:",
		},
		"CheckFailurePrintedOnce": {
			args: func(ta *testApp) []string {
				return nil
			},
			setup: func(ta *testApp) {
				ta.tracker.CheckErr = context.DeadlineExceeded
			},
			expectCode:   1,
			expectStderr: "ERROR during check",
			rejectStderr: "Error:",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnvironment(t)

			ta := newTestApp(t)
			if tc.setup != nil {
				tc.setup(ta)
			}

			code := run(context.Background(), ta.App, append([]string{"dirtrack"}, tc.args(ta)...))

			assert.Equal(t, tc.expectCode, code)
			if tc.expectStdout != "" {
				assert.Contains(t, ta.stdout.String(), tc.expectStdout)
			}
			if tc.expectStderr != "" {
				assert.Contains(t, ta.stderr.String(), tc.expectStderr)
			}
			if tc.rejectStderr != "" {
				assert.NotContains(t, ta.stderr.String(), tc.rejectStderr)
			}
		})
	}
}
