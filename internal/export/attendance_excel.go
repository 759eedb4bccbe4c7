// Package export renders the reconciled course state into Excel workbooks.
// It only produces bytes and a filename; delivering the artifact is the
// caller's concern.
package export

import (
	"fmt"
	"time"

	"github.com/mparedes/rollbook/internal/attendance"
	"github.com/mparedes/rollbook/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	glyphPresent = "✓"
	glyphAbsent  = "✗"

	attendanceSheet = "Asistencia"
)

// AttendanceWorkbook renders the students × dates matrix with a trailing
// percentage column. Every cell goes through the same effective-value
// resolution the rest of the system uses, so the export shows exactly what
// a save would persist.
func AttendanceWorkbook(students []models.Student, view *attendance.View) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	dates := view.Dates()

	header := make([]string, 0, len(dates)+2)
	header = append(header, "Alumno")
	header = append(header, dates...)
	header = append(header, "% Asistencia")
	for c, h := range header {
		if err := f.SetCellStr(attendanceSheet, cell(c+1, 1), h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", h, err)
		}
	}

	present, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "1F7A33", Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	absent, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "B3261E", Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	bands, err := percentageBands(f)
	if err != nil {
		return nil, err
	}

	rows := [][]string{header}
	for i, st := range students {
		row := i + 2
		values := make([]string, 0, len(header))
		values = append(values, st.FullName())
		if err := f.SetCellStr(attendanceSheet, cell(1, row), st.FullName()); err != nil {
			return nil, err
		}
		if st.ID == nil {
			continue
		}
		sid := *st.ID

		for c, d := range dates {
			glyph := glyphAbsent
			style := absent
			if view.Effective(sid, d) {
				glyph = glyphPresent
				style = present
			}
			pos := cell(c+2, row)
			if err := f.SetCellStr(attendanceSheet, pos, glyph); err != nil {
				return nil, err
			}
			_ = f.SetCellStyle(attendanceSheet, pos, pos, style)
			values = append(values, glyph)
		}

		pct := view.Percentage(sid)
		pos := cell(len(dates)+2, row)
		if err := f.SetCellValue(attendanceSheet, pos, pct); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(attendanceSheet, pos, pos, bands.pick(pct))
		values = append(values, fmt.Sprintf("%d", pct))
		rows = append(rows, values)
	}

	if err := ApplyHeaderFormatting(f, attendanceSheet, len(header)); err != nil {
		return nil, err
	}
	AutoWidth(f, attendanceSheet, rows)
	return f, nil
}

// AttendanceFilename encodes the course and the export date.
func AttendanceFilename(courseID int64, now time.Time) string {
	return sanitizeFileName(fmt.Sprintf("asistencia_curso_%d_%s.xlsx",
		courseID, now.Format("2006-01-02")))
}

// Bytes flattens a workbook into the buffer handed to the sink.
func Bytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// threshold bands for the percentage column
type bandStyles struct {
	high, mid, low int
}

func (b bandStyles) pick(pct int) int {
	switch {
	case pct >= 90:
		return b.high
	case pct >= 75:
		return b.mid
	default:
		return b.low
	}
}

func percentageBands(f *excelize.File) (bandStyles, error) {
	mk := func(fill string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
	}
	high, err := mk("C6EFCE")
	if err != nil {
		return bandStyles{}, err
	}
	mid, err := mk("FFEB9C")
	if err != nil {
		return bandStyles{}, err
	}
	low, err := mk("FFC7CE")
	if err != nil {
		return bandStyles{}, err
	}
	return bandStyles{high: high, mid: mid, low: low}, nil
}
