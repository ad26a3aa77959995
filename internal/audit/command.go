package audit

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ansaudit/internal/content"
	"github.com/temirov/ansaudit/internal/discovery"
	"github.com/temirov/ansaudit/internal/filesystem"
	"github.com/temirov/ansaudit/internal/structure"
	"github.com/temirov/ansaudit/internal/tree"
	"github.com/temirov/ansaudit/internal/utils"
	pathutils "github.com/temirov/ansaudit/internal/utils/path"
)

const (
	commandNameConstant            = "audit [roots...]"
	commandShortDescription        = "Audit ansible project roots against layout and content conventions"
	commandLongDescription         = "audit renders every project tree, validates file contents and the required project layout, prints a summary of failing projects, and optionally emails the report."
	flagConcurrencyName            = "concurrency"
	flagConcurrencyDescription     = "Number of projects audited in parallel (defaults to audit.concurrency)."
	flagMaxEntriesName             = "max-entries"
	flagMaxEntriesDescription      = "Maximum number of entries rendered per project tree; zero or less disables the limit."
	flagTreeName                   = "tree"
	flagTreeDescription            = "Print the rendered tree of every audited project."
	flagDiscoverName               = "discover"
	flagDiscoverDescription        = "Treat roots as parent directories and audit the ansible projects found beneath them."
	errorMissingRoots              = "no project roots provided; pass roots as arguments or configure audit.roots"
	errorInvalidConcurrency        = "concurrency must be at least 1"
	discoveryErrorTemplateConstant = "unable to discover projects: %w"
	sinkErrorTemplateConstant      = "unable to configure report delivery: %w"
	outputErrorTemplateConstant    = "unable to write audit output: %w"
	treePrintingVerbosityConstant  = 2
	discoveredProjectsLogMessage   = "discovered projects"
	logFieldProjectCountConstant   = "project_count"
	logFieldRequestedRootsConstant = "requested_roots"
)

// ErrAuditFailed reports that at least one audited project has violations.
var ErrAuditFailed = errors.New("audit found violations")

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted audit configuration.
type ConfigurationProvider func() CommandConfiguration

// NotificationSinkProvider builds the report delivery channel for one run.
type NotificationSinkProvider func(logger *zap.Logger) (NotificationSink, error)

// ProjectFileSystem is the filesystem surface shared by the walker, the validator and root filtering.
type ProjectFileSystem interface {
	tree.FileSystem
	structure.FileSystem
}

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    ConfigurationProvider
	NotificationSinkProvider NotificationSinkProvider
	Discoverer               ProjectDiscoverer
	FileSystem               ProjectFileSystem
	Classifier               tree.Classifier
}

// Build constructs the cobra command for project audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          commandNameConstant,
		Short:        commandShortDescription,
		Long:         commandLongDescription,
		SilenceUsage: true,
		RunE:         builder.run,
	}

	command.Flags().Int(flagConcurrencyName, 0, flagConcurrencyDescription)
	command.Flags().Int(flagMaxEntriesName, 0, flagMaxEntriesDescription)
	command.Flags().Bool(flagTreeName, false, flagTreeDescription)
	command.Flags().Bool(flagDiscoverName, false, flagDiscoverDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	fileSystem := builder.resolveFileSystem()

	projects := options.Roots
	if options.DiscoverProjects {
		discoveredProjects, discoveryError := builder.resolveDiscoverer().DiscoverProjects(options.Roots)
		if discoveryError != nil {
			return fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
		}
		logger.Info(
			discoveredProjectsLogMessage,
			zap.Strings(logFieldRequestedRootsConstant, options.Roots),
			zap.Int(logFieldProjectCountConstant, len(discoveredProjects)),
		)
		projects = discoveredProjects
	}

	sink, sinkError := builder.resolveNotificationSink(logger)
	if sinkError != nil {
		return fmt.Errorf(sinkErrorTemplateConstant, sinkError)
	}

	walker := tree.NewWalker(fileSystem, builder.resolveClassifier())
	validator := structure.NewValidator(fileSystem, nil)
	auditor := NewProjectAuditor(walker, validator, logger, options.MaxEntries)
	service := NewService(auditor, fileSystem, sink, logger)

	report := service.Run(command.Context(), projects, options.Concurrency)

	if writeError := writeAuditOutput(command.OutOrStdout(), report, options.PrintTrees); writeError != nil {
		return fmt.Errorf(outputErrorTemplateConstant, writeError)
	}

	if options.FailOnViolations && report.HasFailures() {
		return ErrAuditFailed
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()

	roots := configuration.Roots
	if len(arguments) > 0 {
		roots = arguments
	}
	roots = pathutils.NewRootSanitizer().Sanitize(roots)
	if len(roots) == 0 {
		if helpError := builder.displayCommandHelp(command); helpError != nil {
			return CommandOptions{}, helpError
		}
		return CommandOptions{}, errors.New(errorMissingRoots)
	}

	concurrency := configuration.Concurrency
	if command.Flags().Changed(flagConcurrencyName) {
		concurrency, _ = command.Flags().GetInt(flagConcurrencyName)
	}
	if concurrency < 1 {
		return CommandOptions{}, errors.New(errorInvalidConcurrency)
	}

	maxEntries := configuration.MaxEntries
	if command.Flags().Changed(flagMaxEntriesName) {
		maxEntries, _ = command.Flags().GetInt(flagMaxEntriesName)
	}

	printTrees, _ := command.Flags().GetBool(flagTreeName)
	if utils.NewCommandContextAccessor().Verbosity(command.Context()) >= treePrintingVerbosityConstant {
		printTrees = true
	}
	discoverProjects, _ := command.Flags().GetBool(flagDiscoverName)

	return CommandOptions{
		Roots:            roots,
		Concurrency:      concurrency,
		MaxEntries:       maxEntries,
		DiscoverProjects: discoverProjects,
		PrintTrees:       printTrees,
		FailOnViolations: configuration.FailOnViolations,
	}, nil
}

func writeAuditOutput(output io.Writer, report AuditReport, printTrees bool) error {
	if printTrees {
		for _, result := range report.Results {
			if _, writeError := fmt.Fprintln(output, result.Tree); writeError != nil {
				return writeError
			}
		}
	}
	_, writeError := io.WriteString(output, report.Render())
	return writeError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveFileSystem() ProjectFileSystem {
	if builder.FileSystem == nil {
		return filesystem.OSFileSystem{}
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveClassifier() tree.Classifier {
	if builder.Classifier == nil {
		return content.NewClassifier(nil)
	}
	return builder.Classifier
}

func (builder *CommandBuilder) resolveDiscoverer() ProjectDiscoverer {
	if builder.Discoverer == nil {
		return discovery.NewFilesystemProjectDiscoverer()
	}
	return builder.Discoverer
}

func (builder *CommandBuilder) resolveNotificationSink(logger *zap.Logger) (NotificationSink, error) {
	if builder.NotificationSinkProvider == nil {
		return NopNotificationSink{}, nil
	}
	sink, sinkError := builder.NotificationSinkProvider(logger)
	if sinkError != nil {
		return nil, sinkError
	}
	if sink == nil {
		return NopNotificationSink{}, nil
	}
	return sink, nil
}

func (builder *CommandBuilder) displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
