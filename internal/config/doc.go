// Package config loads, validates, and defaults the TOML configuration.
//
// Precedence, lowest to highest: repository defaults, the config file
// (~/.config/muselink/config.toml or ./muselink.toml), then the
// MUSELINK_* environment variables. All knobs are pass-through
// configuration; the only computed values are path expansion for prompt
// and tool-schema files.
package config
