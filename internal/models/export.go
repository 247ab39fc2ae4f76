package models

// PlanExportFormat enumerates the file formats a plan can be rendered to.
type PlanExportFormat string

const (
	PlanExportFormatCSV PlanExportFormat = "csv"
	PlanExportFormatPDF PlanExportFormat = "pdf"
)

// PlanExportJob describes a request to render a generated plan to a
// downloadable file.
type PlanExportJob struct {
	ID         string
	ProposalID string
	Plan       Plan
	Format     PlanExportFormat
	CreatedBy  string
}
