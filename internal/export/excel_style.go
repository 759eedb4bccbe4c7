package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ApplyHeaderFormatting makes row 1 bold and puts an auto-filter on it.
func ApplyHeaderFormatting(f *excelize.File, sheet string, cols int) error {
	if cols == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end := colName(cols) + "1"
	if err := f.SetCellStyle(sheet, "A1", end, style); err != nil {
		return err
	}
	return f.AutoFilter(sheet, "A1:"+end, nil)
}

// AutoWidth sizes each column to its longest rendered value plus padding,
// clamped to keep the sheet readable.
func AutoWidth(f *excelize.File, sheet string, rows [][]string) {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	for c := 0; c < cols; c++ {
		maxim := 0
		for _, row := range rows {
			if c < len(row) {
				if l := visualLen(row[c]); l > maxim {
					maxim = l
				}
			}
		}
		w := float64(maxim) + 2.0
		if w < 10 {
			w = 10
		}
		if w > 60 {
			w = 60
		}
		col := colName(c + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
}

// colName converts 1-based column index to a letter name: 1 -> A, 27 -> AA.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

// visualLen approximates rendered width by rune count, tabs as 4.
func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}
