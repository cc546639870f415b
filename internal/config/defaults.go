package config

const (
	defaultAgentName      = "heuristic"
	defaultAgentModel     = "gpt-4o-mini"
	defaultCountry        = "us"
	defaultSearchLimit    = 10
	defaultSearchRetries  = 3
	defaultBackoffMS      = 500
	defaultTimeoutSeconds = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Agent: Agent{
			Name:  defaultAgentName,
			Model: defaultAgentModel,
		},
		Resolver: Resolver{
			Country:        defaultCountry,
			Limit:          defaultSearchLimit,
			Retries:        defaultSearchRetries,
			BackoffMS:      defaultBackoffMS,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
