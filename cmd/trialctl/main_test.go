package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/padraicbc/trialapi/config"
	"github.com/padraicbc/trialapi/importer"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetSheetName(sheet, "Patrol"))
	for axis, v := range map[string]interface{}{
		"A1": "Summer Trial June 6 -- June 7, 2024",
		"A2": "Scent Club",
		"D5": "2024-06-06", "D6": "John Smith",
		"A7": "12-0001-01", "B7": "Rex", "C7": "Ann Lee", "D7": "Pass",
	} {
		require.NoError(t, f.SetCellValue("Patrol", axis, v))
	}
	path := filepath.Join(t.TempDir(), "trial.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestPreviewCommand(t *testing.T) {
	cmd := rootCommand(&config.Config{Timezone: "UTC"})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"preview", writeWorkbook(t)})
	require.NoError(t, cmd.Execute())

	var sum importer.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &sum))
	assert.Equal(t, "Scent Club", sum.ClubName)
	assert.Equal(t, importer.Stats{TotalDays: 1, TotalClasses: 1, TotalRounds: 1, TotalEntries: 1, TotalScores: 1}, sum.Stats)
	assert.Empty(t, sum.Errors)
}

func TestImportCommandRequiresDatabase(t *testing.T) {
	cmd := rootCommand(&config.Config{Timezone: "UTC"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", writeWorkbook(t), "--secretary", "admin"})
	assert.EqualError(t, cmd.Execute(), "config: DATABASE_URL or DB_PASS must be set")
}

func TestPreviewCommandMissingFile(t *testing.T) {
	cmd := rootCommand(&config.Config{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"preview", filepath.Join(t.TempDir(), "nope.xlsx")})
	assert.Error(t, cmd.Execute())
}
