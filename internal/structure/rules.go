package structure

import "io/fs"

// PathKind enumerates the node shapes a rule can require.
type PathKind string

// Supported path kinds.
const (
	PathKindAny       PathKind = "any"
	PathKindDirectory PathKind = "directory"
	PathKindFile      PathKind = "file"
)

const ownerExecutableBitConstant fs.FileMode = 0o100

// Rule is one entry of the structural checklist. Message templates receive the project root
// as the first argument and the checked path as the second.
type Rule struct {
	RelativePath          string
	Kind                  PathKind
	RequireNonEmpty       bool
	RequireExecutable     bool
	MissingTemplate       string
	WrongKindTemplate     string
	EmptyTemplate         string
	NotExecutableTemplate string
}

// DefaultRules returns the ordered ansible project checklist.
func DefaultRules() []Rule {
	return []Rule{
		{
			RelativePath:    ".git",
			Kind:            PathKindAny,
			MissingTemplate: "Project %[1]s is not tracked in GIT!",
		},
		directoryRule(".githooks"),
		{
			RelativePath:          ".githooks/pre-commit",
			Kind:                  PathKindFile,
			RequireExecutable:     true,
			MissingTemplate:       "%[2]s does NOT exist!",
			WrongKindTemplate:     "%[2]s is NOT a regular file!",
			NotExecutableTemplate: "%[2]s is NOT executable!",
		},
		directoryRule("group_vars"),
		directoryRule("group_vars/all"),
		nonEmptyFileRule("group_vars/all/all.yml", "%[2]s does NOT exist!", "%[2]s variable file is empty!"),
		nonEmptyFileRule("localhost.yml", "%[2]s inventory does NOT exist!", "%[2]s inventory is empty!"),
		directoryRule("playbooks"),
		nonEmptyFileRule("playbooks/gitpull.yml", "%[2]s playbook does NOT exist!", "%[2]s playbook is empty!"),
		directoryRule("roles"),
		directoryRule("roles/git"),
		directoryRule("roles/git/tasks"),
		directoryRule("roles/git/vars"),
		nonEmptyFileRule("roles/git/tasks/main.yml", "%[2]s does NOT exist!", "%[2]s git role main task is empty!"),
		nonEmptyFileRule("roles/git/vars/main.yml", "%[2]s does NOT exist!", "%[2]s git role main vars is empty!"),
	}
}

func directoryRule(relativePath string) Rule {
	return Rule{
		RelativePath:    relativePath,
		Kind:            PathKindDirectory,
		MissingTemplate: "Directory %[2]s does NOT exist!",
	}
}

func nonEmptyFileRule(relativePath string, missingTemplate string, emptyTemplate string) Rule {
	return Rule{
		RelativePath:    relativePath,
		Kind:            PathKindFile,
		RequireNonEmpty: true,
		MissingTemplate: missingTemplate,
		EmptyTemplate:   emptyTemplate,
	}
}

func (kind PathKind) matches(fileInfo fs.FileInfo) bool {
	switch kind {
	case PathKindDirectory:
		return fileInfo.IsDir()
	case PathKindFile:
		return fileInfo.Mode().IsRegular()
	default:
		return true
	}
}
