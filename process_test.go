package xlbudget

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ledgerBytes(t *testing.T) []byte {
	t.Helper()
	f := ledgerWorkbook(t)
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestProcessBytes(t *testing.T) {
	out, rep, err := ProcessBytes(ledgerBytes(t), WithSheets("Sheet1"))
	require.NoError(t, err)

	require.Len(t, rep.Sheets, 2)
	assert.False(t, rep.Sheets[0].Skipped)
	assert.Equal(t, "A1:U4", rep.Sheets[0].Range.String())
	assert.Equal(t, 6, rep.Sheets[0].Formulas)
	assert.True(t, rep.Sheets[1].Skipped)
	assert.Equal(t, 6, rep.Formulas())

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	for cell, want := range map[string]string{
		"U1": "SUM(U2)",
		"U2": "SUM(U3,U4)",
		"O3": "D3*G3",
		"U3": "O3*S3",
		"O4": "D4",
		"U4": "O4*S4",
	} {
		got, err := f.GetCellFormula("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
	v, err := f.GetCellValue("Notes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "keep me", v, "unselected sheets are copied through")
}

func TestProcessBytes_AllSheets(t *testing.T) {
	out, rep, err := ProcessBytes(ledgerBytes(t))
	require.NoError(t, err)
	assert.False(t, rep.Sheets[1].Skipped)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Notes", "B2")
	require.NoError(t, err)
	assert.Empty(t, v, "column B is dropped from every processed sheet")
}

func TestProcessBytes_NotAWorkbook(t *testing.T) {
	_, rep, err := ProcessBytes([]byte("plain text"))
	assert.Error(t, err)
	assert.Nil(t, rep)
}

func TestProcessWorkbook_JoinsSheetErrors(t *testing.T) {
	bad := NewGrid()
	require.Error(t, bad.SetDimension("B2:A1"))
	wb := &Workbook{Sheets: []*Sheet{
		{Name: "Good", Grid: gridOf(t, ledgerCells())},
		{Name: "Bad", Grid: bad},
		{Name: "AlsoGood", Grid: gridOf(t, ledgerCells())},
	}}

	var mu sync.Mutex
	seen := map[string]bool{}
	rep, err := ProcessWorkbook(wb, WithWorkers(2), WithObserver(ObserverFunc(func(e Event) {
		mu.Lock()
		seen[e.Sheet] = true
		mu.Unlock()
	})))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGrid)
	assert.Contains(t, err.Error(), `sheet "Bad"`)

	assert.NoError(t, rep.Sheets[0].Err)
	assert.Error(t, rep.Sheets[1].Err)
	assert.NoError(t, rep.Sheets[2].Err)
	assert.Equal(t, 6, rep.Sheets[2].Formulas)
	assert.Equal(t, "=SUM(U2)", formulaAt(t, wb.Sheets[2].Grid, "U1"))

	assert.True(t, seen["Good"])
	assert.True(t, seen["AlsoGood"])
	assert.False(t, seen[""], "every event carries its sheet name")
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ledger.xlsx")
	require.NoError(t, os.WriteFile(in, ledgerBytes(t), 0o644))
	out := filepath.Join(dir, "ledger_processed.xlsx")

	rep, err := ProcessFile(in, out, WithWorkers(1))
	require.NoError(t, err)
	assert.Equal(t, 2, len(rep.Sheets))
	assert.FileExists(t, out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetCellFormula("Sheet1", "U2")
	require.NoError(t, err)
	assert.Equal(t, "SUM(U3,U4)", got)
}

func TestProcessFile_Failures(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.xlsx")

	_, err := ProcessFile(filepath.Join(dir, "missing.xlsx"), out)
	assert.Error(t, err)
	assert.NoFileExists(t, out)

	broken := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o644))
	_, err = ProcessFile(broken, out)
	assert.Error(t, err)
	assert.NoFileExists(t, out, "a failed run leaves no output behind")
}
