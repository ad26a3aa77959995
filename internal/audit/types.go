package audit

// ProjectResult captures the outcome of auditing one project root.
type ProjectResult struct {
	Project        string
	Violations     []string
	Tree           string
	FileCount      int
	DirectoryCount int
}

// Failed reports whether the project has at least one violation.
func (result ProjectResult) Failed() bool {
	return len(result.Violations) > 0
}

// AuditReport summarizes a complete audit run. Results follow the order of the input roots.
type AuditReport struct {
	TotalProjects  int
	FailedProjects int
	Results        []ProjectResult
	SummaryTable   string
	Details        string
}

// HasFailures reports whether any audited project has violations.
func (report AuditReport) HasFailures() bool {
	return report.FailedProjects > 0
}

// CommandOptions captures the runtime parameters for the audit command.
type CommandOptions struct {
	Roots            []string
	Concurrency      int
	MaxEntries       int
	DiscoverProjects bool
	PrintTrees       bool
	FailOnViolations bool
}
