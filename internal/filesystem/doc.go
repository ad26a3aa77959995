// Package filesystem adapts operating system file primitives to the narrow
// interfaces consumed by the tree walker, the structural validator, project
// discovery and the scaffolding generator.
package filesystem
