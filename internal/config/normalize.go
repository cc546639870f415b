package config

import (
	"os"
	"strings"
)

// Environment overrides applied after file parsing, mirroring the
// original command-line tool's variables.
const (
	envAgent       = "MUSELINK_AGENT"
	envModel       = "MUSELINK_MODEL"
	envAgentPrompt = "MUSELINK_AGENT_PROMPT"
	envAgentTools  = "MUSELINK_AGENT_TOOLS"
)

func (c *Config) normalize() error {
	c.Agent.Name = strings.TrimSpace(c.Agent.Name)
	c.Agent.Model = strings.TrimSpace(c.Agent.Model)
	c.Agent.Binary = strings.TrimSpace(c.Agent.Binary)
	c.Resolver.Country = strings.ToLower(strings.TrimSpace(c.Resolver.Country))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if v := strings.TrimSpace(os.Getenv(envAgent)); v != "" {
		c.Agent.Name = v
	}
	if v := strings.TrimSpace(os.Getenv(envModel)); v != "" {
		c.Agent.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(envAgentPrompt)); v != "" {
		c.Agent.PromptPath = v
	}
	if v := strings.TrimSpace(os.Getenv(envAgentTools)); v != "" {
		c.Agent.ToolsPath = v
	}

	for _, path := range []*string{&c.Agent.PromptPath, &c.Agent.ToolsPath} {
		trimmed := strings.TrimSpace(*path)
		if trimmed == "" {
			*path = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*path = expanded
	}
	return nil
}
