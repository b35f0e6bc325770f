// Package config loads and merges repodump configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (REPODUMP_COMMITS, REPODUMP_IGNORE, REPODUMP_FORMAT,
//     REPODUMP_LOG_LEVEL, REPODUMP_REDACT)
//  3. Config file ($XDG_CONFIG_HOME/repodump/config.yaml, or --config)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key.
package config
