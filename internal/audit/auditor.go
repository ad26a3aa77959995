package audit

import "go.uber.org/zap"

const (
	processingRootMessageConstant = "processing root"
	auditedRootMessageConstant    = "audited root"
	logFieldRootConstant          = "root"
	logFieldViolationsConstant    = "violations"
	logFieldFilesConstant         = "files"
	logFieldDirectoriesConstant   = "directories"
)

// ProjectAuditor combines the tree walk and the structural checklist for one project root.
type ProjectAuditor struct {
	walker     TreeWalker
	validator  StructuralValidator
	logger     *zap.Logger
	maxEntries int
}

// NewProjectAuditor constructs a ProjectAuditor.
func NewProjectAuditor(walker TreeWalker, validator StructuralValidator, logger *zap.Logger, maxEntries int) *ProjectAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectAuditor{
		walker:     walker,
		validator:  validator,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// Audit returns the walk violations followed by the structural violations of projectRoot.
func (auditor *ProjectAuditor) Audit(projectRoot string) ProjectResult {
	auditor.logger.Info(processingRootMessageConstant, zap.String(logFieldRootConstant, projectRoot))

	walkResult := auditor.walker.Walk(projectRoot, auditor.maxEntries)
	structuralViolations := auditor.validator.Validate(projectRoot)

	violations := make([]string, 0, len(walkResult.Violations)+len(structuralViolations))
	violations = append(violations, walkResult.Violations...)
	violations = append(violations, structuralViolations...)

	auditor.logger.Debug(
		auditedRootMessageConstant,
		zap.String(logFieldRootConstant, projectRoot),
		zap.Int(logFieldViolationsConstant, len(violations)),
		zap.Int(logFieldFilesConstant, walkResult.FileCount),
		zap.Int(logFieldDirectoriesConstant, walkResult.DirectoryCount),
	)

	return ProjectResult{
		Project:        projectRoot,
		Violations:     violations,
		Tree:           walkResult.Tree,
		FileCount:      walkResult.FileCount,
		DirectoryCount: walkResult.DirectoryCount,
	}
}
