package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/pkg/export"
	"github.com/noah-isme/pathway-planner-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func samplePlan() models.Plan {
	return models.Plan{
		Terms: []models.PlanTerm{
			{
				TermLabel: "Fall 2026",
				Entries: []models.PlanEntry{
					{CourseCode: "MATH101", OfferingID: "off-1", Credits: 4},
					{CourseCode: "ENG101", OfferingID: "off-2", Credits: 3},
				},
				TotalCredits: 7,
				Score:        612.5,
			},
		},
	}
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.PlanExportJob{ID: "job-1", ProposalID: "proposal-1", Plan: samplePlan(), Format: models.PlanExportFormatCSV, CreatedBy: "student-1"}
	result, err := svc.Generate(job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/plans/export/")

	path := store.Path(result.RelativePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.PlanExportJob{ID: "job-2", ProposalID: "proposal-2", Plan: samplePlan(), Format: models.PlanExportFormatPDF, CreatedBy: "student-1"}
	result, err := svc.Generate(job)
	require.NoError(t, err)
	require.Equal(t, models.PlanExportFormatPDF, result.Format)

	path := filepath.Clean(store.Path(result.RelativePath))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceParseTokenRoundTrip(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.PlanExportJob{ID: "job-3", ProposalID: "proposal-3", Plan: samplePlan(), Format: models.PlanExportFormatCSV}
	result, err := svc.Generate(job)
	require.NoError(t, err)

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, "job-3", jobID)
	require.Equal(t, result.RelativePath, relPath)
}
