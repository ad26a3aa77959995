package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	verbosityContextKeyConstant             = commandContextKey("verbosity")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathAvailable {
		return "", false
	}
	return configurationFilePath, true
}

// WithVerbosity attaches the number of repeated verbose flags to the provided context.
func (accessor CommandContextAccessor) WithVerbosity(parentContext context.Context, verbosity int) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, verbosityContextKeyConstant, verbosity)
}

// Verbosity extracts the verbose flag count from the provided context, zero when absent.
func (accessor CommandContextAccessor) Verbosity(executionContext context.Context) int {
	if executionContext == nil {
		return 0
	}
	verbosity, verbosityAvailable := executionContext.Value(verbosityContextKeyConstant).(int)
	if !verbosityAvailable {
		return 0
	}
	return verbosity
}
