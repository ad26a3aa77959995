// Package cli constructs the ansaudit command-line interface, wiring the Cobra
// command hierarchy, the layered Viper configuration, and structured logging.
// The audit and init subcommands are registered on the root command.
package cli
