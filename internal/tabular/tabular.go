// Package tabular renders spreadsheet uploads into plain text so they can
// flow through the same extraction path as pasted statement text.
package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RenderXLSX reads the first sheet of an xlsx file and returns its rows as
// tab-separated lines. Empty rows are dropped; trailing empty cells are kept
// so column positions survive.
func RenderXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var b strings.Builder
	for _, row := range rows {
		if rowIsEmpty(row) {
			continue
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("sheet %q has no rows", sheets[0])
	}
	return b.String(), nil
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
