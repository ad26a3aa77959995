// Package structure holds the fixed ansible project checklist as a
// declarative rule list and evaluates it against project roots using only
// path metadata.
package structure
