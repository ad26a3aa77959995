package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	projectExistsTemplateConstant    = "%s exists. Exit without overwriting existing code: %w"
	inspectionErrorTemplateConstant  = "unable to inspect %s: %w"
	creationErrorTemplateConstant    = "unable to create %s: %w"
	unknownEntryKindTemplateConstant = "unsupported template entry kind %q for %s"
	emptyProjectPathMessageConstant  = "project path must not be empty"
	createdEntryMessageConstant      = "created template entry"
	logFieldPathConstant             = "path"
	logFieldKindConstant             = "kind"
)

var (
	// ErrProjectExists indicates that the target project path is already present.
	ErrProjectExists    = errors.New("project already exists")
	// ErrEmptyProjectPath indicates that no project path was supplied.
	ErrEmptyProjectPath = errors.New(emptyProjectPathMessageConstant)
)

// FileSystem exposes the operations required to materialize a project template.
type FileSystem interface {
	Lstat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Symlink(target string, newPath string) error
}

// Generator writes project templates to disk.
type Generator struct {
	fileSystem FileSystem
	entries    []TemplateEntry
	logger     *zap.Logger
}

// NewGenerator constructs a Generator. Nil entries select DefaultTemplate.
func NewGenerator(fileSystem FileSystem, entries []TemplateEntry, logger *zap.Logger) *Generator {
	if entries == nil {
		entries = DefaultTemplate()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{fileSystem: fileSystem, entries: entries, logger: logger}
}

// Generate creates the template under projectPath and returns the created paths in order. It
// refuses to touch a projectPath that already exists.
func (generator *Generator) Generate(projectPath string) ([]string, error) {
	projectPath = strings.TrimSpace(projectPath)
	if len(projectPath) == 0 {
		return nil, ErrEmptyProjectPath
	}

	_, inspectionError := generator.fileSystem.Lstat(projectPath)
	switch {
	case inspectionError == nil:
		return nil, fmt.Errorf(projectExistsTemplateConstant, projectPath, ErrProjectExists)
	case !errors.Is(inspectionError, fs.ErrNotExist):
		return nil, fmt.Errorf(inspectionErrorTemplateConstant, projectPath, inspectionError)
	}

	createdPaths := make([]string, 0, len(generator.entries))
	for _, entry := range generator.entries {
		entryPath := filepath.Join(projectPath, filepath.FromSlash(entry.RelativePath))
		if creationError := generator.createEntry(entryPath, entry); creationError != nil {
			return createdPaths, fmt.Errorf(creationErrorTemplateConstant, entryPath, creationError)
		}
		generator.logger.Debug(createdEntryMessageConstant, zap.String(logFieldPathConstant, entryPath), zap.String(logFieldKindConstant, string(entry.Kind)))
		createdPaths = append(createdPaths, entryPath)
	}
	return createdPaths, nil
}

func (generator *Generator) createEntry(entryPath string, entry TemplateEntry) error {
	switch entry.Kind {
	case EntryKindDirectory:
		return generator.fileSystem.MkdirAll(entryPath, entry.Permissions)
	case EntryKindFile:
		if directoryError := generator.fileSystem.MkdirAll(filepath.Dir(entryPath), directoryPermissionsConstant); directoryError != nil {
			return directoryError
		}
		return generator.fileSystem.WriteFile(entryPath, []byte(entry.Content), entry.Permissions)
	case EntryKindSymlink:
		return generator.fileSystem.Symlink(entry.LinkTarget, entryPath)
	default:
		return fmt.Errorf(unknownEntryKindTemplateConstant, entry.Kind, entry.RelativePath)
	}
}
