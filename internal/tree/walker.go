package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/ansaudit/internal/content"
)

const (
	versionControlDirectoryNameConstant   = ".git"
	structuredDataSuffixConstant          = ".yml"
	branchPrefixConstant                  = "│   "
	spacePrefixConstant                   = "    "
	teeConnectorConstant                  = "├── "
	lastConnectorConstant                 = "└── "
	symlinkLineTemplateConstant           = "%s%s%s -> %s"
	unresolvedSymlinkTargetConstant       = "?"
	directoryCountTemplateConstant        = "%d directories"
	fileCountTemplateConstant             = ", %d files"
	invalidSuffixTemplateConstant         = "Invalid suffix: %s"
	invalidStructuredDataTemplateConstant = "Invalid YAML: %s"
	entryLimitTemplateConstant            = "... length limit, %d, reached, counted: %d directories, %d files"
	unreadableDirectoryTemplateConstant   = "Unable to read directory %s: %v"
	unclassifiableFileTemplateConstant    = "Unable to classify %s: %v"
	lineSeparatorConstant                 = "\n"
)

var errEntryLimitReached = errors.New("entry limit reached")

// StructuredDataSuffixExceptions lists file names allowed to parse as YAML without the .yml suffix.
var StructuredDataSuffixExceptions = map[string]struct{}{
	".gitignore":  {},
	"ansible.cfg": {},
	"README.md":   {},
	".secret":     {},
}

// EntryKind enumerates the filesystem node kinds the walker reports.
type EntryKind string

// Entry kinds produced during traversal.
const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
	EntryKindSymlink   EntryKind = "symlink"
)

// Entry is a single visited filesystem node.
type Entry struct {
	Path           string
	Name           string
	Kind           EntryKind
	Classification content.Classification
}

// FileSystem exposes the metadata operations required for traversal.
type FileSystem interface {
	ReadDirectory(path string) ([]fs.DirEntry, error)
	Readlink(path string) (string, error)
}

// Classifier decides the content category of a file.
type Classifier interface {
	Classify(path string) (content.Classification, error)
}

// WalkResult accumulates the rendering, diagnostics and counters of one traversal.
type WalkResult struct {
	Tree           string
	Violations     []string
	FileCount      int
	DirectoryCount int
	EntryCount     int
	Truncated      bool
}

// Walker renders a project tree and collects naming and content violations.
type Walker struct {
	fileSystem FileSystem
	classifier Classifier
}

// NewWalker constructs a Walker from its collaborators.
func NewWalker(fileSystem FileSystem, classifier Classifier) *Walker {
	return &Walker{fileSystem: fileSystem, classifier: classifier}
}

// Walk traverses rootPath depth first in directory order. At most maxEntries entries are
// rendered; a non-positive maxEntries disables the limit.
func (walker *Walker) Walk(rootPath string, maxEntries int) WalkResult {
	accumulator := &walkAccumulator{entryLimit: maxEntries}
	accumulator.lines = append(accumulator.lines, filepath.Base(rootPath))

	if visitError := walker.visitDirectory(rootPath, "", accumulator); errors.Is(visitError, errEntryLimitReached) {
		notice := fmt.Sprintf(entryLimitTemplateConstant, maxEntries, accumulator.result.DirectoryCount, accumulator.result.FileCount)
		accumulator.result.Truncated = true
		accumulator.result.Violations = append(accumulator.result.Violations, notice)
		accumulator.lines = append(accumulator.lines, notice)
	}

	footer := fmt.Sprintf(directoryCountTemplateConstant, accumulator.result.DirectoryCount)
	if accumulator.result.FileCount > 0 {
		footer += fmt.Sprintf(fileCountTemplateConstant, accumulator.result.FileCount)
	}
	accumulator.lines = append(accumulator.lines, "", footer)

	result := accumulator.result
	result.Tree = strings.Join(accumulator.lines, lineSeparatorConstant) + lineSeparatorConstant
	return result
}

type walkAccumulator struct {
	entryLimit int
	lines      []string
	result     WalkResult
}

func (accumulator *walkAccumulator) admit() error {
	if accumulator.entryLimit > 0 && accumulator.result.EntryCount >= accumulator.entryLimit {
		return errEntryLimitReached
	}
	accumulator.result.EntryCount++
	return nil
}

func (accumulator *walkAccumulator) violation(template string, arguments ...any) {
	accumulator.result.Violations = append(accumulator.result.Violations, fmt.Sprintf(template, arguments...))
}

func (walker *Walker) visitDirectory(directoryPath string, prefix string, accumulator *walkAccumulator) error {
	directoryEntries, readError := walker.fileSystem.ReadDirectory(directoryPath)
	if readError != nil {
		accumulator.violation(unreadableDirectoryTemplateConstant, directoryPath, readError)
		return nil
	}

	visibleEntries := make([]fs.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() && directoryEntry.Name() == versionControlDirectoryNameConstant {
			continue
		}
		if !isReportable(directoryEntry.Type()) {
			continue
		}
		visibleEntries = append(visibleEntries, directoryEntry)
	}

	for entryIndex, directoryEntry := range visibleEntries {
		connector, extension := teeConnectorConstant, branchPrefixConstant
		if entryIndex == len(visibleEntries)-1 {
			connector, extension = lastConnectorConstant, spacePrefixConstant
		}

		if admitError := accumulator.admit(); admitError != nil {
			return admitError
		}

		entry := Entry{
			Path: filepath.Join(directoryPath, directoryEntry.Name()),
			Name: directoryEntry.Name(),
		}

		switch entryType := directoryEntry.Type(); {
		case entryType&fs.ModeSymlink != 0:
			entry.Kind = EntryKindSymlink
			target, readlinkError := walker.fileSystem.Readlink(entry.Path)
			if readlinkError != nil {
				target = unresolvedSymlinkTargetConstant
			}
			accumulator.lines = append(accumulator.lines, fmt.Sprintf(symlinkLineTemplateConstant, prefix, connector, entry.Name, target))
		case entryType.IsDir():
			entry.Kind = EntryKindDirectory
			accumulator.lines = append(accumulator.lines, prefix+connector+entry.Name)
			accumulator.result.DirectoryCount++
			if visitError := walker.visitDirectory(entry.Path, prefix+extension, accumulator); visitError != nil {
				return visitError
			}
		default:
			entry.Kind = EntryKindFile
			accumulator.lines = append(accumulator.lines, prefix+connector+entry.Name)
			accumulator.result.FileCount++
			walker.inspectFile(entry, accumulator)
		}
	}

	return nil
}

func (walker *Walker) inspectFile(entry Entry, accumulator *walkAccumulator) {
	classification, classifyError := walker.classifier.Classify(entry.Path)
	if classifyError != nil {
		accumulator.violation(unclassifiableFileTemplateConstant, entry.Path, classifyError)
		return
	}
	entry.Classification = classification

	for _, violation := range FileViolations(entry) {
		accumulator.violation("%s", violation)
	}
}

// FileViolations applies the suffix and YAML conventions to a classified file entry.
func FileViolations(entry Entry) []string {
	if entry.Kind != EntryKindFile || !entry.Classification.Textual {
		return nil
	}

	hasStructuredSuffix := filepath.Ext(entry.Name) == structuredDataSuffixConstant
	_, exempt := StructuredDataSuffixExceptions[entry.Name]

	switch {
	case entry.Classification.StructuredData && !hasStructuredSuffix && !exempt:
		return []string{fmt.Sprintf(invalidSuffixTemplateConstant, entry.Name)}
	case !entry.Classification.StructuredData && hasStructuredSuffix:
		return []string{fmt.Sprintf(invalidStructuredDataTemplateConstant, entry.Name)}
	default:
		return nil
	}
}

// isReportable keeps directories, symlinks and regular files; sockets, pipes and devices are ignored.
func isReportable(entryType fs.FileMode) bool {
	return entryType.IsDir() || entryType&fs.ModeSymlink != 0 || entryType.IsRegular()
}
