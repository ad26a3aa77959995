// Package content classifies files as textual or binary by sniffing their
// signature and decides whether textual content parses as a YAML document.
package content
