// Package scaffold generates new ansible projects whose layout passes the audit, and wires the
// interactive init command that drives the generator.
package scaffold
