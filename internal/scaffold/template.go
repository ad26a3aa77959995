package scaffold

import "io/fs"

// EntryKind distinguishes the filesystem objects a template creates.
type EntryKind string

// Template entry kinds.
const (
	EntryKindDirectory EntryKind = "directory"
	EntryKindFile      EntryKind = "file"
	EntryKindSymlink   EntryKind = "symlink"
)

const (
	directoryPermissionsConstant  fs.FileMode = 0o755
	filePermissionsConstant       fs.FileMode = 0o644
	executablePermissionsConstant fs.FileMode = 0o755
)

// TemplateEntry describes one path of a generated project, relative to the project root and
// using forward slashes. Entries are applied in order, so parents precede children.
type TemplateEntry struct {
	RelativePath string
	Kind         EntryKind
	Content      string
	Permissions  fs.FileMode
	LinkTarget   string
}

const gitIgnoreContent = `.secret
*.swp
`

const preCommitHookContent = `#!/bin/bash
echo pre-commit runs!
ANSIBLE_LINT="$(command -v ansible-lint)"
if [[ ! -x $ANSIBLE_LINT ]]; then
    printf "ansible-lint not available.\n Please install it with 'pip install --user ansible-lint'.\n"
    exit 0
fi
PASS=true
printf "\nValidating yaml files with ansible-lint\n"
for FILE in $(git status | egrep 'modified.*yml|modified.*yaml|new file.*yml|new file.*yaml' | awk -F: '{ print $2 }'); do
    echo Processing $FILE...
    $ANSIBLE_LINT $FILE --force-color -p -v
    if [[ "$?" == 0 ]]; then
        printf "\t\033[32mAnsible-Lint Passed: $FILE\033[0m\n"
    else
        printf "\t\033[41mAnsible-Lint Failed: $FILE\033[0m\n"
        PASS=false
    fi
done
printf "\nAnsible validation completed!\n"
if ! $PASS; then
    printf "\033[41mCOMMIT FAILED:\033[0m Your commit contains files that fail ansible-lint validation. \nFix the errors or skip this validation if required with --no-verify (not advised)\n"
    exit 1
else
    printf "\033[42mCOMMIT SUCCEEDED\033[0m\n"
fi
exit $?
`

const gitRoleVariablesContent = `git_username: "{{ var_username }}"
git_password: "{{ var_password }}"
repository: "{{ var_repository }}"
destination: "{{ var_destination }}"
`

const gitRoleTasksContent = `- name: Get latest code from repository
  git:
    repo: "https://{{ git_username }}:{{ git_password }}@{{ repository }}"
    dest: "{{ destination }}"
    version: "{{ branch }}"
    force: yes
  delegate_to: localhost
`

const gitPullPlaybookContent = `# This should be the FIRST playbook encapsulated within other playbooks
- hosts: local
  connection: local
  gather_facts: no

  roles:
  - git
`

const ansibleConfigurationContent = `[defaults]
roles_path = roles
vault_password_file = .secret
`

const groupVariablesContent = `var_username:
var_repository:
var_destination:
branch: master
`

const groupVaultContent = `# ansible-vault create --vault-id default@.secret group_vars/all/all_vault.yml
`

const localInventoryContent = `local:
  hosts:
    localhost:
      ansible_connection: local
`

// DefaultTemplate returns the entries of a new ansible project that satisfies the audit checklist
// once it is tracked in git.
func DefaultTemplate() []TemplateEntry {
	return []TemplateEntry{
		directoryEntry(""),
		fileEntry(".gitignore", gitIgnoreContent),
		directoryEntry(".githooks"),
		{RelativePath: ".githooks/pre-commit", Kind: EntryKindFile, Content: preCommitHookContent, Permissions: executablePermissionsConstant},
		directoryEntry("playbooks"),
		directoryEntry("roles"),
		{RelativePath: "playbooks/roles", Kind: EntryKindSymlink, LinkTarget: "../roles"},
		directoryEntry("group_vars/all"),
		directoryEntry("roles/git/vars"),
		directoryEntry("roles/git/tasks"),
		fileEntry("roles/git/vars/main.yml", gitRoleVariablesContent),
		fileEntry("roles/git/tasks/main.yml", gitRoleTasksContent),
		fileEntry("playbooks/gitpull.yml", gitPullPlaybookContent),
		fileEntry("ansible.cfg", ansibleConfigurationContent),
		fileEntry("group_vars/all/all.yml", groupVariablesContent),
		fileEntry("group_vars/all/all_vault.yml", groupVaultContent),
		fileEntry("localhost.yml", localInventoryContent),
	}
}

func directoryEntry(relativePath string) TemplateEntry {
	return TemplateEntry{RelativePath: relativePath, Kind: EntryKindDirectory, Permissions: directoryPermissionsConstant}
}

func fileEntry(relativePath string, content string) TemplateEntry {
	return TemplateEntry{RelativePath: relativePath, Kind: EntryKindFile, Content: content, Permissions: filePermissionsConstant}
}
