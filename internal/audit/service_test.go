package audit_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ansaudit/internal/audit"
	"github.com/temirov/ansaudit/internal/tree"
)

const (
	serviceSubtestTemplateConstant      = "%d_%s"
	serviceProjectPathTemplateConstant  = "/srv/ansible/project-%02d"
	serviceMissingRootConstant          = "/srv/ansible/missing"
	serviceFileRootConstant             = "/srv/ansible/notes.txt"
	serviceFirstProjectConstant         = "/srv/ansible/alpha"
	serviceSecondProjectConstant        = "/srv/ansible/beta"
	serviceThirdProjectConstant         = "/srv/ansible/gamma"
	serviceGitViolationConstant         = "Project /srv/ansible/beta is not tracked in GIT!"
	serviceSuffixViolationConstant      = "Invalid suffix: /srv/ansible/beta/inventories/production/hosts"
	serviceYAMLViolationConstant        = "Invalid YAML: /srv/ansible/gamma/site.yml"
	serviceDeliveryFailureConstant      = "smtp connection refused"
	serviceWorkerPoolSizeConstant       = 10
	serviceRootCountConstant            = 20
	serviceAuditDelayConstant           = 5 * time.Millisecond
	servicePassingCaseNameConstant      = "all_projects_pass"
	serviceFailingCaseNameConstant      = "one_project_fails"
	serviceWalkerViolationConstant      = "Invalid YAML: /srv/ansible/alpha/site.yml"
	serviceStructuralViolationConstant  = "Directory /srv/ansible/alpha/inventories does NOT exist!"
	serviceRenderedTreeConstant         = "alpha\n└── site.yml\n\n0 directories, 1 files\n"
	serviceExpectedDetailsConstant      = "Path: /srv/ansible/beta\t\tErrors: 2\nProject /srv/ansible/beta is not tracked in GIT!\nInvalid suffix: /srv/ansible/beta/inventories/production/hosts\n\n==========\n\nPath: /srv/ansible/gamma\t\tErrors: 1\nInvalid YAML: /srv/ansible/gamma/site.yml\n\n==========\n\n"
	serviceExpectedOverviewConstant     = "Audit failed on 2/3 projects\n\n"
	serviceExpectedPassedReportConstant = "Audit passed on 3 projects\n"
)

type stubFileInfo struct {
	name      string
	directory bool
}

func (info stubFileInfo) Name() string       { return info.name }
func (info stubFileInfo) Size() int64        { return 0 }
func (info stubFileInfo) Mode() fs.FileMode  { return info.mode() }
func (info stubFileInfo) ModTime() time.Time { return time.Time{} }
func (info stubFileInfo) IsDir() bool        { return info.directory }
func (info stubFileInfo) Sys() any           { return nil }

func (info stubFileInfo) mode() fs.FileMode {
	if info.directory {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

type stubRootFileSystem struct {
	directories map[string]struct{}
	files       map[string]struct{}
}

func newStubRootFileSystem(directories []string, files []string) stubRootFileSystem {
	fileSystem := stubRootFileSystem{directories: map[string]struct{}{}, files: map[string]struct{}{}}
	for _, directory := range directories {
		fileSystem.directories[directory] = struct{}{}
	}
	for _, file := range files {
		fileSystem.files[file] = struct{}{}
	}
	return fileSystem
}

func (fileSystem stubRootFileSystem) Stat(path string) (fs.FileInfo, error) {
	if _, exists := fileSystem.directories[path]; exists {
		return stubFileInfo{name: path, directory: true}, nil
	}
	if _, exists := fileSystem.files[path]; exists {
		return stubFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type stubAuditor struct {
	violationsByRoot map[string][]string
	delay            time.Duration
	activeAudits     atomic.Int64
	peakAudits       atomic.Int64
	auditedRoots     sync.Map
}

func (auditor *stubAuditor) Audit(projectRoot string) audit.ProjectResult {
	active := auditor.activeAudits.Add(1)
	defer auditor.activeAudits.Add(-1)
	for {
		peak := auditor.peakAudits.Load()
		if active <= peak || auditor.peakAudits.CompareAndSwap(peak, active) {
			break
		}
	}
	auditor.auditedRoots.Store(projectRoot, struct{}{})

	if auditor.delay > 0 {
		time.Sleep(auditor.delay)
	}

	return audit.ProjectResult{
		Project:    projectRoot,
		Violations: auditor.violationsByRoot[projectRoot],
	}
}

type recordingSink struct {
	mutex      sync.Mutex
	reports    []audit.AuditReport
	failure    error
	deliveries int
}

func (sink *recordingSink) Deliver(executionContext context.Context, report audit.AuditReport) error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.deliveries++
	sink.reports = append(sink.reports, report)
	return sink.failure
}

func TestServiceRunKeepsInputOrderWithBoundedPool(testInstance *testing.T) {
	roots := make([]string, 0, serviceRootCountConstant)
	violationsByRoot := map[string][]string{}
	for rootIndex := 0; rootIndex < serviceRootCountConstant; rootIndex++ {
		root := fmt.Sprintf(serviceProjectPathTemplateConstant, rootIndex)
		roots = append(roots, root)
		if rootIndex%3 == 0 {
			violationsByRoot[root] = []string{fmt.Sprintf("Invalid YAML: %s/site.yml", root)}
		}
	}

	auditor := &stubAuditor{violationsByRoot: violationsByRoot, delay: serviceAuditDelayConstant}
	service := audit.NewService(auditor, newStubRootFileSystem(roots, nil), nil, zap.NewNop())

	report := service.Run(context.Background(), roots, serviceWorkerPoolSizeConstant)

	require.Equal(testInstance, serviceRootCountConstant, report.TotalProjects)
	require.Equal(testInstance, 7, report.FailedProjects)
	require.Len(testInstance, report.Results, serviceRootCountConstant)
	for rootIndex, result := range report.Results {
		require.Equal(testInstance, roots[rootIndex], result.Project)
		require.Equal(testInstance, violationsByRoot[roots[rootIndex]], result.Violations)
	}
	require.LessOrEqual(testInstance, auditor.peakAudits.Load(), int64(serviceWorkerPoolSizeConstant))
	require.GreaterOrEqual(testInstance, auditor.peakAudits.Load(), int64(1))
}

func TestServiceRunNotifiesOnlyOnFailures(testInstance *testing.T) {
	roots := []string{serviceFirstProjectConstant, serviceSecondProjectConstant, serviceThirdProjectConstant}

	testCases := []struct {
		name               string
		violationsByRoot   map[string][]string
		expectedDeliveries int
	}{
		{
			name:               servicePassingCaseNameConstant,
			violationsByRoot:   map[string][]string{},
			expectedDeliveries: 0,
		},
		{
			name:               serviceFailingCaseNameConstant,
			violationsByRoot:   map[string][]string{serviceSecondProjectConstant: {serviceGitViolationConstant}},
			expectedDeliveries: 1,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(serviceSubtestTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			sink := &recordingSink{}
			service := audit.NewService(
				&stubAuditor{violationsByRoot: testCase.violationsByRoot},
				newStubRootFileSystem(roots, nil),
				sink,
				zap.NewNop(),
			)

			report := service.Run(context.Background(), roots, serviceWorkerPoolSizeConstant)

			require.Equal(subTest, testCase.expectedDeliveries, sink.deliveries)
			if testCase.expectedDeliveries > 0 {
				require.Equal(subTest, report, sink.reports[0])
			}
		})
	}
}

func TestServiceRunIgnoresDeliveryFailures(testInstance *testing.T) {
	roots := []string{serviceSecondProjectConstant}
	sink := &recordingSink{failure: errors.New(serviceDeliveryFailureConstant)}
	service := audit.NewService(
		&stubAuditor{violationsByRoot: map[string][]string{serviceSecondProjectConstant: {serviceGitViolationConstant}}},
		newStubRootFileSystem(roots, nil),
		sink,
		zap.NewNop(),
	)

	report := service.Run(context.Background(), roots, 1)

	require.Equal(testInstance, 1, sink.deliveries)
	require.Equal(testInstance, 1, report.FailedProjects)
	require.Contains(testInstance, report.Render(), serviceGitViolationConstant)
}

func TestServiceRunDropsRootsThatAreNotDirectories(testInstance *testing.T) {
	auditor := &stubAuditor{violationsByRoot: map[string][]string{}}
	service := audit.NewService(
		auditor,
		newStubRootFileSystem([]string{serviceFirstProjectConstant}, []string{serviceFileRootConstant}),
		nil,
		nil,
	)

	report := service.Run(context.Background(), []string{serviceMissingRootConstant, serviceFileRootConstant, serviceFirstProjectConstant}, 0)

	require.Equal(testInstance, 1, report.TotalProjects)
	require.Equal(testInstance, serviceFirstProjectConstant, report.Results[0].Project)
	_, missingRootAudited := auditor.auditedRoots.Load(serviceMissingRootConstant)
	require.False(testInstance, missingRootAudited)
}

func TestServiceRunWithoutProjectsSkipsDelivery(testInstance *testing.T) {
	sink := &recordingSink{}
	service := audit.NewService(&stubAuditor{}, newStubRootFileSystem(nil, nil), sink, zap.NewNop())

	report := service.Run(context.Background(), []string{serviceMissingRootConstant}, serviceWorkerPoolSizeConstant)

	require.Equal(testInstance, audit.AuditReport{}, report)
	require.Empty(testInstance, report.Render())
	require.Zero(testInstance, sink.deliveries)

	emptyReport := service.Run(context.Background(), nil, serviceWorkerPoolSizeConstant)
	require.Equal(testInstance, audit.AuditReport{}, emptyReport)
	require.Zero(testInstance, sink.deliveries)
}

func TestServiceRunIsIdempotent(testInstance *testing.T) {
	roots := []string{serviceFirstProjectConstant, serviceSecondProjectConstant, serviceThirdProjectConstant}
	auditor := &stubAuditor{violationsByRoot: map[string][]string{
		serviceSecondProjectConstant: {serviceGitViolationConstant, serviceSuffixViolationConstant},
		serviceThirdProjectConstant:  {serviceYAMLViolationConstant},
	}}
	service := audit.NewService(auditor, newStubRootFileSystem(roots, nil), nil, zap.NewNop())

	firstReport := service.Run(context.Background(), roots, 2)
	secondReport := service.Run(context.Background(), roots, 3)

	require.Equal(testInstance, firstReport, secondReport)
	require.Equal(testInstance, firstReport.Render(), secondReport.Render())
}

func TestBuildReportRendersFailingProjects(testInstance *testing.T) {
	report := audit.BuildReport([]audit.ProjectResult{
		{Project: serviceFirstProjectConstant},
		{Project: serviceSecondProjectConstant, Violations: []string{serviceGitViolationConstant, serviceSuffixViolationConstant}},
		{Project: serviceThirdProjectConstant, Violations: []string{serviceYAMLViolationConstant}},
	})

	require.Equal(testInstance, 3, report.TotalProjects)
	require.Equal(testInstance, 2, report.FailedProjects)
	require.True(testInstance, report.HasFailures())
	require.Equal(testInstance, serviceExpectedDetailsConstant, report.Details)
	require.Contains(testInstance, report.SummaryTable, serviceSecondProjectConstant)
	require.Contains(testInstance, report.SummaryTable, serviceThirdProjectConstant)
	require.NotContains(testInstance, report.SummaryTable, serviceFirstProjectConstant)

	rendered := report.Render()
	require.Equal(testInstance, serviceExpectedOverviewConstant+report.SummaryTable+"\n"+serviceExpectedDetailsConstant, rendered)
}

func TestBuildReportWithoutFailures(testInstance *testing.T) {
	report := audit.BuildReport([]audit.ProjectResult{
		{Project: serviceFirstProjectConstant},
		{Project: serviceSecondProjectConstant},
		{Project: serviceThirdProjectConstant},
	})

	require.False(testInstance, report.HasFailures())
	require.Empty(testInstance, report.SummaryTable)
	require.Empty(testInstance, report.Details)
	require.Equal(testInstance, serviceExpectedPassedReportConstant, report.Render())
}

type stubTreeWalker struct {
	result           tree.WalkResult
	requestedEntries int
}

func (walker *stubTreeWalker) Walk(rootPath string, maxEntries int) tree.WalkResult {
	walker.requestedEntries = maxEntries
	return walker.result
}

type stubStructuralValidator struct {
	violations []string
}

func (validator stubStructuralValidator) Validate(projectRoot string) []string {
	return validator.violations
}

func TestProjectAuditorOrdersWalkBeforeStructuralViolations(testInstance *testing.T) {
	walker := &stubTreeWalker{result: tree.WalkResult{
		Tree:           serviceRenderedTreeConstant,
		Violations:     []string{serviceWalkerViolationConstant},
		FileCount:      1,
		DirectoryCount: 0,
		EntryCount:     1,
	}}
	validator := stubStructuralValidator{violations: []string{serviceStructuralViolationConstant}}

	auditor := audit.NewProjectAuditor(walker, validator, nil, audit.DefaultMaxEntries)
	result := auditor.Audit(serviceFirstProjectConstant)

	require.Equal(testInstance, audit.DefaultMaxEntries, walker.requestedEntries)
	require.Equal(testInstance, serviceFirstProjectConstant, result.Project)
	require.Equal(testInstance, []string{serviceWalkerViolationConstant, serviceStructuralViolationConstant}, result.Violations)
	require.Equal(testInstance, serviceRenderedTreeConstant, result.Tree)
	require.Equal(testInstance, 1, result.FileCount)
	require.True(testInstance, result.Failed())
}
