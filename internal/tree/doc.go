// Package tree walks an ansible project depth first, renders it with
// box-drawing connectors and reports files whose suffix disagrees with their
// YAML content.
package tree
