// Package config provides configuration management for the dirtrack application.
//
// Settings are layered, each source overriding the previous one:
//
//  1. Defaults from New
//  2. A YAML file (LoadFile), selected with --config-file or DIRTRACK_CONFIG_FILE
//  3. DIRTRACK_* environment variables (LoadFromEnvironment)
//  4. Command-line flags, applied by the CLI
//
// Finalize validates the merged result, resolves paths to absolute form and
// settles the run mode: daemon when requested, otherwise a single check.
//
// # Config File
//
//	watch_dir: ~/notes
//	state_file: ~/.local/state/dirtrack/notes.json
//	log_file: ~/.local/state/dirtrack/notes.log
//	interval: 1800
//	daemon: true
//	exclude: [.git, node_modules]
//	push: true
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config
