package structure

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

const inspectionFailureTemplateConstant = "Unable to inspect %s: %v"

// FileSystem exposes the metadata lookup used by the checklist. Stat follows symbolic links.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// Validator evaluates the structural checklist against project roots.
type Validator struct {
	fileSystem FileSystem
	rules      []Rule
}

// NewValidator constructs a Validator. A nil rule list selects DefaultRules.
func NewValidator(fileSystem FileSystem, rules []Rule) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Validator{fileSystem: fileSystem, rules: rules}
}

// Validate returns one violation per failing rule, in rule order.
func (validator *Validator) Validate(projectRoot string) []string {
	var violations []string
	for _, rule := range validator.rules {
		if violation, failed := rule.Evaluate(validator.fileSystem, projectRoot); failed {
			violations = append(violations, violation)
		}
	}
	return violations
}

// Evaluate checks a single rule and returns its violation message when it fails.
// Existence, kind, executable and emptiness checks stop at the first failure.
func (rule Rule) Evaluate(fileSystem FileSystem, projectRoot string) (string, bool) {
	targetPath := filepath.Join(projectRoot, filepath.FromSlash(rule.RelativePath))

	fileInfo, statError := fileSystem.Stat(targetPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return fmt.Sprintf(rule.MissingTemplate, projectRoot, targetPath), true
		}
		return fmt.Sprintf(inspectionFailureTemplateConstant, targetPath, statError), true
	}

	if !rule.Kind.matches(fileInfo) {
		template := rule.WrongKindTemplate
		if len(template) == 0 {
			template = rule.MissingTemplate
		}
		return fmt.Sprintf(template, projectRoot, targetPath), true
	}

	if rule.RequireExecutable && fileInfo.Mode().Perm()&ownerExecutableBitConstant == 0 {
		return fmt.Sprintf(rule.NotExecutableTemplate, projectRoot, targetPath), true
	}

	if rule.RequireNonEmpty && fileInfo.Size() == 0 {
		return fmt.Sprintf(rule.EmptyTemplate, projectRoot, targetPath), true
	}

	return "", false
}
