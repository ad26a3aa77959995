package audit

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the worker pool size used when none is configured.
	DefaultConcurrency = 10
	// DefaultMaxEntries bounds the number of rendered entries per project tree.
	DefaultMaxEntries  = 10000

	skippedRootMessageConstant     = "skipping root that is not a directory"
	noProjectsMessageConstant      = "no project roots to audit"
	auditCompletedMessageConstant  = "audit completed"
	deliveryFailedMessageConstant  = "report delivery failed"
	logFieldTotalProjectsConstant  = "total_projects"
	logFieldFailedProjectsConstant = "failed_projects"
	logFieldConcurrencyConstant    = "concurrency"
)

// Auditor audits a single project root.
type Auditor interface {
	Audit(projectRoot string) ProjectResult
}

// Service runs project audits over many roots with a bounded worker pool.
type Service struct {
	auditor    Auditor
	fileSystem FileSystem
	sink       NotificationSink
	logger     *zap.Logger
}

// NewService constructs a Service using the provided dependencies.
func NewService(auditor Auditor, fileSystem FileSystem, sink NotificationSink, logger *zap.Logger) *Service {
	if sink == nil {
		sink = NopNotificationSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		auditor:    auditor,
		fileSystem: fileSystem,
		sink:       sink,
		logger:     logger,
	}
}

// Run audits every existing directory among roots using at most concurrency workers. Results keep
// the order of roots. The sink receives the report once when at least one project failed; delivery
// errors are logged and do not affect the returned report.
func (service *Service) Run(executionContext context.Context, roots []string, concurrency int) AuditReport {
	projects := service.filterRoots(roots)
	if len(projects) == 0 {
		service.logger.Info(noProjectsMessageConstant)
		return AuditReport{}
	}

	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ProjectResult, len(projects))
	var workerGroup errgroup.Group
	workerGroup.SetLimit(concurrency)
	for projectIndex, projectRoot := range projects {
		workerGroup.Go(func() error {
			results[projectIndex] = service.auditor.Audit(projectRoot)
			return nil
		})
	}
	_ = workerGroup.Wait()

	report := BuildReport(results)
	service.logger.Info(
		auditCompletedMessageConstant,
		zap.Int(logFieldTotalProjectsConstant, report.TotalProjects),
		zap.Int(logFieldFailedProjectsConstant, report.FailedProjects),
		zap.Int(logFieldConcurrencyConstant, concurrency),
	)

	if report.HasFailures() {
		if deliveryError := service.sink.Deliver(executionContext, report); deliveryError != nil {
			service.logger.Warn(deliveryFailedMessageConstant, zap.Error(deliveryError))
		}
	}

	return report
}

func (service *Service) filterRoots(roots []string) []string {
	projects := make([]string, 0, len(roots))
	for _, root := range roots {
		fileInfo, statError := service.fileSystem.Stat(root)
		if statError != nil || !fileInfo.IsDir() {
			service.logger.Debug(skippedRootMessageConstant, zap.String(logFieldRootConstant, root))
			continue
		}
		projects = append(projects, root)
	}
	return projects
}
