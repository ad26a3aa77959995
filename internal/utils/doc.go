// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the ConfigurationLoader, which layers embedded defaults, configuration files and
// ANSAUDIT_* environment variables through Viper, the LoggerFactory that builds zap loggers and
// maps the verbose flag counter onto log levels, and the CommandContextAccessor that carries
// root flag state to subcommands.
package utils
