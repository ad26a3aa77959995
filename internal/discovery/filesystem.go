package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	gitMetadataDirectoryNameConstant = ".git"
	inventoryDirectoryNameConstant   = "inventories"
	playbooksDirectoryNameConstant   = "playbooks"
	ansibleConfigFileNameConstant    = "ansible.cfg"
)

var projectMarkerNames = map[string]struct{}{
	gitMetadataDirectoryNameConstant: {},
	inventoryDirectoryNameConstant:   {},
	playbooksDirectoryNameConstant:   {},
	ansibleConfigFileNameConstant:    {},
}

// FilesystemProjectDiscoverer locates ansible project roots beneath parent directories.
type FilesystemProjectDiscoverer struct{}

// NewFilesystemProjectDiscoverer constructs a project discoverer backed by filepath.WalkDir.
func NewFilesystemProjectDiscoverer() *FilesystemProjectDiscoverer {
	return &FilesystemProjectDiscoverer{}
}

// DiscoverProjects walks the provided roots and returns, sorted, every directory holding a project
// marker: a .git entry, an inventories or playbooks directory, or an ansible.cfg file. The walk
// does not descend into a discovered project. Unreadable subtrees are skipped.
func (discoverer *FilesystemProjectDiscoverer) DiscoverProjects(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var projects []string

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				if directoryEntry != nil && directoryEntry.IsDir() && path != root {
					return fs.SkipDir
				}
				return nil
			}

			if !directoryEntry.IsDir() {
				return nil
			}

			if _, alreadySeen := seen[path]; alreadySeen {
				return fs.SkipDir
			}

			if !containsProjectMarker(path) {
				return nil
			}

			seen[path] = struct{}{}
			projects = append(projects, path)
			return fs.SkipDir
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(projects)
	return projects, nil
}

func containsProjectMarker(directoryPath string) bool {
	for markerName := range projectMarkerNames {
		if _, statError := os.Lstat(filepath.Join(directoryPath, markerName)); statError == nil {
			return true
		}
	}
	return false
}
