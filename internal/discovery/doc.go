// Package discovery expands parent directories into the ansible project roots found beneath them.
package discovery
