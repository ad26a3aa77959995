package scaffold_test

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ansaudit/internal/content"
	"github.com/temirov/ansaudit/internal/filesystem"
	"github.com/temirov/ansaudit/internal/scaffold"
	"github.com/temirov/ansaudit/internal/structure"
	"github.com/temirov/ansaudit/internal/tree"
)

const (
	scaffoldProjectNameConstant       = "webservers"
	scaffoldWriteFailureConstant      = "disk full"
	scaffoldExecutableBitConstant     = 0o100
	scaffoldDefaultEntryLimitConstant = 10000
)

func TestGeneratorCreatesAuditableProject(testInstance *testing.T) {
	projectPath := filepath.Join(testInstance.TempDir(), scaffoldProjectNameConstant)

	createdPaths, generationError := scaffold.NewGenerator(filesystem.OSFileSystem{}, nil, nil).Generate(projectPath)
	require.NoError(testInstance, generationError)
	require.Len(testInstance, createdPaths, len(scaffold.DefaultTemplate()))
	require.Equal(testInstance, projectPath, createdPaths[0])

	hookInfo, hookError := os.Stat(filepath.Join(projectPath, ".githooks", "pre-commit"))
	require.NoError(testInstance, hookError)
	require.NotZero(testInstance, hookInfo.Mode().Perm()&scaffoldExecutableBitConstant)

	linkTarget, linkError := os.Readlink(filepath.Join(projectPath, "playbooks", "roles"))
	require.NoError(testInstance, linkError)
	require.Equal(testInstance, "../roles", linkTarget)

	gitIgnore, readError := os.ReadFile(filepath.Join(projectPath, ".gitignore"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, ".secret\n*.swp\n", string(gitIgnore))

	validator := structure.NewValidator(filesystem.OSFileSystem{}, nil)
	require.Equal(testInstance, []string{fmt.Sprintf("Project %s is not tracked in GIT!", projectPath)}, validator.Validate(projectPath))

	require.NoError(testInstance, os.Mkdir(filepath.Join(projectPath, ".git"), 0o755))
	require.Empty(testInstance, validator.Validate(projectPath))

	walkResult := tree.NewWalker(filesystem.OSFileSystem{}, content.NewClassifier(nil)).Walk(projectPath, scaffoldDefaultEntryLimitConstant)
	require.Empty(testInstance, walkResult.Violations)
	require.Equal(testInstance, 9, walkResult.FileCount)
	require.Equal(testInstance, 8, walkResult.DirectoryCount)
}

func TestGeneratorRefusesExistingProject(testInstance *testing.T) {
	projectPath := filepath.Join(testInstance.TempDir(), scaffoldProjectNameConstant)
	require.NoError(testInstance, os.Mkdir(projectPath, 0o755))

	createdPaths, generationError := scaffold.NewGenerator(filesystem.OSFileSystem{}, nil, nil).Generate(projectPath)
	require.ErrorIs(testInstance, generationError, scaffold.ErrProjectExists)
	require.Empty(testInstance, createdPaths)

	entries, readError := os.ReadDir(projectPath)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, entries)
}

func TestGeneratorRejectsEmptyProjectPath(testInstance *testing.T) {
	_, generationError := scaffold.NewGenerator(filesystem.OSFileSystem{}, nil, nil).Generate("  ")
	require.ErrorIs(testInstance, generationError, scaffold.ErrEmptyProjectPath)
}

type failingWriteFileSystem struct {
	filesystem.OSFileSystem
	failure error
}

func (fileSystem failingWriteFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return fileSystem.failure
}

func TestGeneratorStopsAtFirstFailure(testInstance *testing.T) {
	projectPath := filepath.Join(testInstance.TempDir(), scaffoldProjectNameConstant)
	writeFailure := errors.New(scaffoldWriteFailureConstant)

	createdPaths, generationError := scaffold.NewGenerator(failingWriteFileSystem{failure: writeFailure}, nil, nil).Generate(projectPath)
	require.ErrorIs(testInstance, generationError, writeFailure)
	require.Equal(testInstance, []string{projectPath}, createdPaths)
}

func TestGeneratorUsesCustomTemplate(testInstance *testing.T) {
	projectPath := filepath.Join(testInstance.TempDir(), scaffoldProjectNameConstant)
	entries := []scaffold.TemplateEntry{
		{RelativePath: "inventories/production/hosts.yml", Kind: scaffold.EntryKindFile, Content: "all: {}\n", Permissions: 0o600},
		{RelativePath: "unknown", Kind: scaffold.EntryKind("socket")},
	}

	createdPaths, generationError := scaffold.NewGenerator(filesystem.OSFileSystem{}, entries, nil).Generate(projectPath)
	require.Error(testInstance, generationError)
	require.Len(testInstance, createdPaths, 1)

	inventory, readError := os.ReadFile(filepath.Join(projectPath, "inventories", "production", "hosts.yml"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "all: {}\n", string(inventory))
}
