package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/costbook/internal/importer"
	"github.com/alexanderramin/costbook/internal/repository"
	"github.com/alexanderramin/costbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteworkCSV = `level,code,name,unit,quantity,rate,notes
0,1,Sitework,,,,
1,1.1,Excavation,m3,100,25,rock likely|confirm with survey
1,1.2,Fill,m3,10,25,
0,2,Structure,,,,
1,2.1,Columns,ea,4,200,
`

func writeImportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func importRow(level int, code, name, qty, rate string) importer.RawRow {
	return importer.RawRow{
		Code:     code,
		Name:     name,
		Quantity: importer.TextCell(qty),
		Rate:     importer.TextCell(rate),
		Level:    importer.IntCell(level),
	}
}

func setupImport(t *testing.T) (ImportService, repository.EstimateRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewImportService(testutil.NewTestUoW(database)), repository.NewSQLEstimateRepo(database)
}

func TestImportFile_CSVSavesEstimate(t *testing.T) {
	svc, repo := setupImport(t)
	ctx := context.Background()
	path := writeImportFile(t, "warehouse-bid.csv", siteworkCSV)

	res, err := svc.ImportFile(ctx, path, ImportOptions{Header: importer.Header{ClientRef: "ACME", IssueDate: "2025-03-01"}})
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, "warehouse-bid", res.Estimate.Name)

	stored, err := repo.GetByID(ctx, res.Estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", stored.ClientRef)
	assert.Equal(t, "2025-03-01", stored.IssueDate.Format("2006-01-02"))
	require.Len(t, stored.Groups, 2)
	assert.Equal(t, "2750", stored.Groups[0].Amount.String())
	assert.Equal(t, "800", stored.Groups[1].Amount.String())
	assert.Equal(t, []string{"rock likely", "confirm with survey"}, stored.Groups[0].Children[0].Notes)
}

func TestImportFile_HeaderFromJSONIsOverriddenByOptions(t *testing.T) {
	svc, _ := setupImport(t)
	path := writeImportFile(t, "bid.json", `{
		"estimate": {"name": "From file", "project": "P-7", "client": "Old client"},
		"rows": [{"level": 0, "code": "1", "name": "Only", "quantity": 2, "rate": "5.50"}]
	}`)

	res, err := svc.ImportFile(context.Background(), path, ImportOptions{
		Header: importer.Header{ClientRef: "New client"},
		DryRun: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "From file", res.Estimate.Name)
	assert.Equal(t, "P-7", res.Estimate.ProjectRef)
	assert.Equal(t, "New client", res.Estimate.ClientRef)
	assert.Equal(t, "11", res.Estimate.Groups[0].Amount.String())
}

func TestImportFile_UnsupportedExtension(t *testing.T) {
	svc, _ := setupImport(t)
	path := writeImportFile(t, "bid.txt", "hello")

	_, err := svc.ImportFile(context.Background(), path, ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestImportRows_DryRunDoesNotPersist(t *testing.T) {
	svc, repo := setupImport(t)
	ctx := context.Background()

	rows := []importer.RawRow{
		importRow(0, "1", "Sitework", "", ""),
		importRow(1, "1.1", "Excavation", "100", "25"),
	}
	res, err := svc.ImportRows(ctx, rows, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Equal(t, untitledEstimate, res.Estimate.Name)
	assert.Equal(t, "2500", res.Estimate.Groups[0].Amount.String())

	listed, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestImportRows_LenientSavesWhatSurvived(t *testing.T) {
	svc, repo := setupImport(t)
	ctx := context.Background()

	rows := []importer.RawRow{
		importRow(1, "0.1", "Orphan", "1", "1"),
		importRow(0, "1", "Sitework", "", ""),
		importRow(1, "1.1", "Excavation", "100", "abc"),
	}
	res, err := svc.ImportRows(ctx, rows, ImportOptions{Header: importer.Header{Name: "Lenient"}})
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, importer.KindOrphanRow, res.Errors[0].Kind)
	assert.Equal(t, importer.KindInvalidNumber, res.Errors[1].Kind)

	stored, err := repo.GetByID(ctx, res.Estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NodeCount())
	assert.True(t, stored.Groups[0].Amount.IsZero())
}

func TestImportRows_StrictRejectsRowErrors(t *testing.T) {
	svc, repo := setupImport(t)
	ctx := context.Background()

	rows := []importer.RawRow{
		importRow(0, "1", "Sitework", "", ""),
		importRow(1, "1.1", "Excavation", "-4", "25"),
	}
	res, err := svc.ImportRows(ctx, rows, ImportOptions{Strict: true})
	require.ErrorIs(t, err, ErrImportRejected)
	require.NotNil(t, res)
	assert.False(t, res.Saved)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "quantity", res.Errors[0].Column)

	listed, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestImportRows_InvalidIssueDate(t *testing.T) {
	svc, _ := setupImport(t)
	_, err := svc.ImportRows(context.Background(), nil, ImportOptions{Header: importer.Header{IssueDate: "03/01/2025"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}
