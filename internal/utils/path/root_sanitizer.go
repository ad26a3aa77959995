package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RootSanitizer normalizes project root inputs gathered from arguments and configuration.
type RootSanitizer struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewRootSanitizer constructs a RootSanitizer using the operating system home lookup.
func NewRootSanitizer() *RootSanitizer {
	return NewRootSanitizerWithProvider(os.UserHomeDir)
}

// NewRootSanitizerWithProvider constructs a RootSanitizer with a custom home directory provider.
func NewRootSanitizerWithProvider(provider HomeDirectoryProvider) *RootSanitizer {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &RootSanitizer{homeDirectoryProvider: provider}
}

// Sanitize trims whitespace, expands home shortcuts and cleans every candidate. Blank candidates and
// repeated roots are dropped; the first occurrence keeps its position. Returns nil when nothing remains.
func (sanitizer *RootSanitizer) Sanitize(candidateRoots []string) []string {
	if sanitizer == nil {
		sanitizer = NewRootSanitizer()
	}

	seenRoots := make(map[string]struct{}, len(candidateRoots))
	sanitizedRoots := make([]string, 0, len(candidateRoots))
	for candidateIndex := range candidateRoots {
		trimmedCandidate := strings.TrimSpace(candidateRoots[candidateIndex])
		if len(trimmedCandidate) == 0 {
			continue
		}

		cleanedRoot := filepath.Clean(sanitizer.ExpandHome(trimmedCandidate))
		if _, alreadySeen := seenRoots[cleanedRoot]; alreadySeen {
			continue
		}
		seenRoots[cleanedRoot] = struct{}{}
		sanitizedRoots = append(sanitizedRoots, cleanedRoot)
	}

	if len(sanitizedRoots) == 0 {
		return nil
	}
	return sanitizedRoots
}

// ExpandHome resolves a leading tilde to the user's home directory. Paths such as ~user stay untouched.
func (sanitizer *RootSanitizer) ExpandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory := sanitizer.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

func (sanitizer *RootSanitizer) resolveHomeDirectory() string {
	sanitizer.initializationGuard.Do(func() {
		sanitizer.homeDirectory, sanitizer.homeDirectoryError = sanitizer.homeDirectoryProvider()
	})
	if sanitizer.homeDirectoryError != nil {
		return ""
	}
	return sanitizer.homeDirectory
}
