package scaffold

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// IOPrompter asks questions on a writer and reads single line answers from a reader.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Prompt writes message and returns the trimmed answer. End of input yields an empty answer.
func (prompter *IOPrompter) Prompt(message string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, message); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}
	return strings.TrimSpace(response), nil
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *IOPrompter) Confirm(message string) (bool, error) {
	response, promptError := prompter.Prompt(message)
	if promptError != nil {
		return false, promptError
	}

	switch strings.ToLower(response) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
