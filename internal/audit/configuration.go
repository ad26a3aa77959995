package audit

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	Roots            []string `mapstructure:"roots"`
	Concurrency      int      `mapstructure:"concurrency"`
	MaxEntries       int      `mapstructure:"max_entries"`
	FailOnViolations bool     `mapstructure:"fail_on_violations"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:            nil,
		Concurrency:      DefaultConcurrency,
		MaxEntries:       DefaultMaxEntries,
		FailOnViolations: true,
	}
}

// DefaultConfigurationValues returns viper defaults for the audit section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".roots":              []string{},
		prefix + ".concurrency":        defaults.Concurrency,
		prefix + ".max_entries":        defaults.MaxEntries,
		prefix + ".fail_on_violations": defaults.FailOnViolations,
	}
}

// sanitize applies the default pool size. A zero MaxEntries keeps meaning unlimited and roots are
// normalized by the command.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	if sanitized.Concurrency == 0 {
		sanitized.Concurrency = DefaultConcurrency
	}

	return sanitized
}
