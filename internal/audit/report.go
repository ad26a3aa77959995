package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	summaryProjectHeaderConstant   = "Project"
	summaryErrorsHeaderConstant    = "Errors"
	detailHeaderTemplateConstant   = "Path: %s\t\tErrors: %d\n"
	detailSeparatorConstant        = "\n==========\n\n"
	reportOverviewTemplateConstant = "Audit failed on %d/%d projects\n\n"
	reportPassedTemplateConstant   = "Audit passed on %d projects\n"
)

// BuildReport aggregates ordered project results into a report.
func BuildReport(results []ProjectResult) AuditReport {
	report := AuditReport{
		TotalProjects: len(results),
		Results:       results,
	}

	summary := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(summaryProjectHeaderConstant, summaryErrorsHeaderConstant)

	var details strings.Builder
	for _, result := range results {
		if !result.Failed() {
			continue
		}
		report.FailedProjects++
		summary.Row(result.Project, strconv.Itoa(len(result.Violations)))

		details.WriteString(fmt.Sprintf(detailHeaderTemplateConstant, result.Project, len(result.Violations)))
		for _, violation := range result.Violations {
			details.WriteString(violation)
			details.WriteString("\n")
		}
		details.WriteString(detailSeparatorConstant)
	}

	if report.FailedProjects > 0 {
		report.SummaryTable = summary.String() + "\n"
		report.Details = details.String()
	}

	return report
}

// Render formats the report for console output and delivery.
func (report AuditReport) Render() string {
	if report.TotalProjects == 0 {
		return ""
	}
	if !report.HasFailures() {
		return fmt.Sprintf(reportPassedTemplateConstant, report.TotalProjects)
	}

	var rendered strings.Builder
	rendered.WriteString(fmt.Sprintf(reportOverviewTemplateConstant, report.FailedProjects, report.TotalProjects))
	rendered.WriteString(report.SummaryTable)
	rendered.WriteString("\n")
	rendered.WriteString(report.Details)
	return rendered.String()
}
