package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mparedes/rollbook/internal/grades"
	"github.com/mparedes/rollbook/internal/models"
	"github.com/xuri/excelize/v2"
)

const gradesSheet = "Notas"

// GradesWorkbook renders students × evaluations with a trailing average
// column. Cells without a grade stay empty; an empty average stays empty
// too — a student with no grades has no average, not a zero.
func GradesWorkbook(students []models.Student, book *grades.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	evs := book.Evaluations()

	header := make([]string, 0, len(evs)+2)
	header = append(header, "Alumno")
	for _, ev := range evs {
		header = append(header, ev.Name)
	}
	header = append(header, "Promedio")
	for c, h := range header {
		if err := f.SetCellStr(gradesSheet, cell(c+1, 1), h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", h, err)
		}
	}

	rows := [][]string{header}
	for i, st := range students {
		row := i + 2
		values := []string{st.FullName()}
		if err := f.SetCellStr(gradesSheet, cell(1, row), st.FullName()); err != nil {
			return nil, err
		}
		if st.ID == nil {
			continue
		}
		sid := *st.ID

		for c, ev := range evs {
			if ev.ID == nil {
				values = append(values, "")
				continue
			}
			g := book.Find(sid, *ev.ID)
			if g == nil {
				values = append(values, "")
				continue
			}
			pos := cell(c+2, row)
			if err := f.SetCellValue(gradesSheet, pos, g.Grade); err != nil {
				return nil, err
			}
			values = append(values, strconv.FormatFloat(g.Grade, 'f', -1, 64))
		}

		if avg := book.Average(sid); avg != nil {
			pos := cell(len(evs)+2, row)
			if err := f.SetCellValue(gradesSheet, pos, *avg); err != nil {
				return nil, err
			}
			values = append(values, strconv.FormatFloat(*avg, 'f', 2, 64))
		}
		rows = append(rows, values)
	}

	if err := ApplyHeaderFormatting(f, gradesSheet, len(header)); err != nil {
		return nil, err
	}
	AutoWidth(f, gradesSheet, rows)
	return f, nil
}

func GradesFilename(courseID int64, now time.Time) string {
	return sanitizeFileName(fmt.Sprintf("notas_curso_%d_%s.xlsx",
		courseID, now.Format("2006-01-02")))
}
