// Package config loads, normalizes, and validates shoebox configuration.
//
// Configuration is read from a TOML file (default ~/.config/shoebox/config.toml)
// with every absent key falling back to a repository default. Path values
// accept ~ expansion and are resolved to absolute paths during load.
package config
