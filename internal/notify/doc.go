// Package notify emails failed audit reports through an SMTP relay.
package notify
