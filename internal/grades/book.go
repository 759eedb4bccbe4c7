// Package grades keeps the loaded grade book for one course — grades and
// the evaluations they hang off — and the operations that push changes to
// the remote store.
package grades

import (
	"sort"

	"github.com/mparedes/rollbook/internal/models"
)

// Book is the normalized grade state for one course. Loads replace the
// contents wholesale. At most one grade exists per (student, evaluation).
type Book struct {
	grades      []models.Grade
	evaluations []models.Evaluation
}

func NewBook() *Book { return &Book{} }

func (b *Book) ReplaceGrades(gs []models.Grade) {
	b.grades = make([]models.Grade, len(gs))
	copy(b.grades, gs)
}

func (b *Book) ReplaceEvaluations(evs []models.Evaluation) {
	b.evaluations = make([]models.Evaluation, len(evs))
	copy(b.evaluations, evs)
}

// UpsertGrade replaces by id or appends.
func (b *Book) UpsertGrade(g models.Grade) {
	if g.ID != nil {
		for i := range b.grades {
			if b.grades[i].ID != nil && *b.grades[i].ID == *g.ID {
				b.grades[i] = g
				return
			}
		}
	}
	b.grades = append(b.grades, g)
}

func (b *Book) AddEvaluation(ev models.Evaluation) {
	b.evaluations = append(b.evaluations, ev)
}

// RemoveEvaluation drops the evaluation and every grade attached to it,
// mirroring the server-side cascade locally.
func (b *Book) RemoveEvaluation(id int64) {
	evs := b.evaluations[:0]
	for _, ev := range b.evaluations {
		if ev.ID == nil || *ev.ID != id {
			evs = append(evs, ev)
		}
	}
	b.evaluations = evs

	gs := b.grades[:0]
	for _, g := range b.grades {
		if g.EvaluationID != id {
			gs = append(gs, g)
		}
	}
	b.grades = gs
}

// Find returns the grade for (studentID, evaluationID), or nil.
func (b *Book) Find(studentID, evaluationID int64) *models.Grade {
	for i := range b.grades {
		if b.grades[i].StudentID == studentID && b.grades[i].EvaluationID == evaluationID {
			return &b.grades[i]
		}
	}
	return nil
}

// Evaluations returns the loaded evaluations sorted by date then id, the
// column order for display and export.
func (b *Book) Evaluations() []models.Evaluation {
	out := make([]models.Evaluation, len(b.evaluations))
	copy(out, b.evaluations)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		var a, bb int64
		if out[i].ID != nil {
			a = *out[i].ID
		}
		if out[j].ID != nil {
			bb = *out[j].ID
		}
		return a < bb
	})
	return out
}

func (b *Book) Grades() []models.Grade {
	out := make([]models.Grade, len(b.grades))
	copy(out, b.grades)
	return out
}

// Average is the arithmetic mean of the student's recorded grades, nil when
// the student has none. Never reports a silent zero.
func (b *Book) Average(studentID int64) *float64 {
	sum, n := 0.0, 0
	for _, g := range b.grades {
		if g.StudentID == studentID {
			sum += g.Grade
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
