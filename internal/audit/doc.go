// Package audit drives ansible project audits.
//
// ProjectAuditor combines the tree walk and the structural checklist for one root, Service fans
// roots out over a bounded worker pool and aggregates the ordered results into an AuditReport,
// and CommandBuilder wires the audit Cobra command with configuration, logging and report
// delivery.
package audit
