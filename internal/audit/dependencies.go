package audit

import (
	"context"
	"io/fs"

	"github.com/temirov/ansaudit/internal/tree"
)

// TreeWalker renders a project tree and reports content convention violations.
type TreeWalker interface {
	Walk(rootPath string, maxEntries int) tree.WalkResult
}

// StructuralValidator evaluates the fixed project checklist.
type StructuralValidator interface {
	Validate(projectRoot string) []string
}

// ProjectDiscoverer expands parent directories into ansible project roots.
type ProjectDiscoverer interface {
	DiscoverProjects(roots []string) ([]string, error)
}

// FileSystem provides the metadata lookup used to filter input roots.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// NotificationSink delivers a finished report, for example by email.
type NotificationSink interface {
	Deliver(executionContext context.Context, report AuditReport) error
}

// NopNotificationSink discards reports.
type NopNotificationSink struct{}

// Deliver implements NotificationSink.
func (NopNotificationSink) Deliver(context.Context, AuditReport) error {
	return nil
}
