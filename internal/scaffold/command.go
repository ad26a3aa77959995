package scaffold

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ansaudit/internal/filesystem"
)

const (
	commandUseConstant               = "init [project]"
	commandShortDescriptionConstant  = "Generate a new ansible project that satisfies the audit checklist"
	commandLongDescriptionConstant   = "init creates the project directory with git hooks, the git role, the gitpull playbook, group variables and a local inventory. Existing paths are never overwritten."
	flagYesName                      = "yes"
	flagYesShorthand                 = "y"
	flagYesDescription               = "Skip the confirmation prompt."
	projectNamePromptConstant        = "Please provide project name (Press 'q' or ENTER to quit): "
	confirmationPromptTemplate       = "Auto-generate ansible tree for %s... Confirm? (y/N): "
	quitAnswerConstant               = "q"
	generatedMessageTemplateConstant = "Generated ansible project %s with %d entries. Run 'git init' inside it to start tracking.\n"
	abortedMessageConstant           = "Nothing generated.\n"
	generationStartedMessageConstant = "generating ansible project"
	logFieldProjectConstant          = "project"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandFileSystem is the filesystem surface used by the init command.
type CommandFileSystem interface {
	FileSystem
	Abs(path string) (string, error)
}

// CommandBuilder assembles the init cobra command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	FileSystem     CommandFileSystem
}

// Build constructs the cobra command for project scaffolding.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().BoolP(flagYesName, flagYesShorthand, false, flagYesDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	prompter := NewIOPrompter(command.InOrStdin(), command.OutOrStdout())
	output := command.OutOrStdout()

	projectName := ""
	if len(arguments) > 0 {
		projectName = arguments[0]
	} else {
		answer, promptError := prompter.Prompt(projectNamePromptConstant)
		if promptError != nil {
			return promptError
		}
		projectName = answer
	}
	if len(projectName) == 0 || projectName == quitAnswerConstant {
		_, writeError := fmt.Fprint(output, abortedMessageConstant)
		return writeError
	}

	skipConfirmation, _ := command.Flags().GetBool(flagYesName)
	if !skipConfirmation {
		confirmed, confirmError := prompter.Confirm(fmt.Sprintf(confirmationPromptTemplate, projectName))
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			_, writeError := fmt.Fprint(output, abortedMessageConstant)
			return writeError
		}
	}

	fileSystem := builder.resolveFileSystem()
	logger := builder.resolveLogger()
	logger.Info(generationStartedMessageConstant, zap.String(logFieldProjectConstant, projectName))

	createdPaths, generationError := NewGenerator(fileSystem, nil, logger).Generate(projectName)
	if generationError != nil {
		return generationError
	}

	displayPath := projectName
	if absolutePath, absoluteError := fileSystem.Abs(projectName); absoluteError == nil {
		displayPath = absolutePath
	}
	_, writeError := fmt.Fprintf(output, generatedMessageTemplateConstant, displayPath, len(createdPaths))
	return writeError
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

func (builder *CommandBuilder) resolveFileSystem() CommandFileSystem {
	if builder.FileSystem == nil {
		return filesystem.OSFileSystem{}
	}
	return builder.FileSystem
}
