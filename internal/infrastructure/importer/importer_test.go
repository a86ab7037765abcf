package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadRows_CSV(t *testing.T) {
	path := writeFile(t, "ingredients.csv", "абрикосовое варенье,г\nsalt, pinch\n\n")

	rows, err := ReadRows(path)
	require.NoError(t, err)

	items, err := ParseIngredients(rows)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "абрикосовое варенье", items[0].Name)
	assert.Equal(t, "г", items[0].MeasurementUnit)
	assert.Equal(t, "pinch", items[1].MeasurementUnit)
}

func TestReadRows_SkipsHeader(t *testing.T) {
	path := writeFile(t, "tags.csv", "Name,slug,color\nBreakfast,breakfast,#E26C2D\n")

	rows, err := ReadRows(path)
	require.NoError(t, err)

	tags, err := ParseTags(rows)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "#E26C2D", tags[0].Color)
}

func TestReadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "measurement_unit"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"flour", "g"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"egg", "pcs"}))

	path := filepath.Join(t.TempDir(), "ingredients.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadRows(path)
	require.NoError(t, err)

	items, err := ParseIngredients(rows)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "flour", items[0].Name)
	assert.Equal(t, "pcs", items[1].MeasurementUnit)
}

func TestReadRows_UnsupportedFormat(t *testing.T) {
	_, err := ReadRows(writeFile(t, "data.json", "[]"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_ShortRows(t *testing.T) {
	_, err := ParseIngredients([][]string{{"flour"}})
	assert.ErrorContains(t, err, "row 1")

	_, err = ParseTags([][]string{{"Lunch", "lunch"}})
	assert.ErrorContains(t, err, "row 1")
}
