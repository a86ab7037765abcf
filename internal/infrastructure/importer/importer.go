// Package importer đọc reference data (ingredients, tags) từ file .csv hoặc .xlsx.
//
// Cả hai format đều không bắt buộc header: nếu ô đầu tiên của dòng 1 là "name"
// thì dòng đó bị bỏ qua.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	ingredientModel "foodgram-backend/internal/domains/ingredient/model"
	tagModel "foodgram-backend/internal/domains/tag/model"
)

var ErrUnsupportedFormat = errors.New("unsupported file format (want .csv or .xlsx)")

// ReadRows đọc toàn bộ dòng của file, chọn parser theo extension
func ReadRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return readCSV(f)
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()
		return readSheet(f)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return stripHeader(records), nil
}

// readSheet dùng sheet đầu tiên của workbook
func readSheet(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return stripHeader(rows), nil
}

func stripHeader(rows [][]string) [][]string {
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		return rows[1:]
	}
	return rows
}

// ParseIngredients: mỗi dòng là "name,measurement_unit"
func ParseIngredients(rows [][]string) ([]ingredientModel.CreateRequest, error) {
	out := make([]ingredientModel.CreateRequest, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected name,measurement_unit", i+1)
		}
		out = append(out, ingredientModel.CreateRequest{Name: row[0], MeasurementUnit: row[1]})
	}
	return out, nil
}

// ParseTags: mỗi dòng là "name,slug,color"
func ParseTags(rows [][]string) ([]tagModel.Tag, error) {
	out := make([]tagModel.Tag, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected name,slug,color", i+1)
		}
		out = append(out, tagModel.Tag{Name: row[0], Slug: row[1], Color: row[2]})
	}
	return out, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
