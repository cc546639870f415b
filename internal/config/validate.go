package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAgent(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAgent() error {
	if c.Agent.Name == "" {
		return errors.New("agent.name must be set")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.Country == "" {
		return errors.New("resolver.country must be set")
	}
	if len(c.Resolver.Country) != 2 {
		return fmt.Errorf("resolver.country must be a two-letter code, got %q", c.Resolver.Country)
	}
	if c.Resolver.Limit <= 0 {
		return errors.New("resolver.limit must be positive")
	}
	if c.Resolver.Retries <= 0 {
		return errors.New("resolver.retries must be positive")
	}
	if c.Resolver.BackoffMS < 0 {
		return errors.New("resolver.backoff_ms must not be negative")
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		return errors.New("resolver.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
