package rostersvc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Mohan-b-dev/std-dash/core/student"
)

func TestExportImport(t *testing.T) {
	recs := []student.Record{
		{ID: "1", Name: "John Doe", Email: "john@test.test", Degree: "BSc", Department: "CS", Year: "2", Course: "Full Stack"},
		{ID: "2", Name: "Jane Roe", Email: "jane@test.test", Degree: "MSc", Department: "EE", Year: "1", Course: "Solana"},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, recs))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{"Jane Roe", "jane@test.test", "MSc", "EE", "1", "Solana"}, rows[2])

	forms, err := Import(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, student.FormFromRecord(recs[0]), forms[0])
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))

	forms, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestImport_NotAWorkbook(t *testing.T) {
	_, err := Import(bytes.NewReader([]byte("name,email\n")))
	assert.Error(t, err)
}
