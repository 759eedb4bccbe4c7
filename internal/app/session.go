// Package app wires the course state, the remote client and the savers into
// one session, the unit a CLI command (or any other surface) works against.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/mparedes/rollbook/internal/attendance"
	"github.com/mparedes/rollbook/internal/ctxutil"
	"github.com/mparedes/rollbook/internal/grades"
	"github.com/mparedes/rollbook/internal/models"
	"github.com/mparedes/rollbook/internal/observability"
	"go.uber.org/zap"
)

// API is everything the session needs from the remote store.
type API interface {
	attendance.RemoteStore
	grades.RemoteStore
	StudentsByCourse(ctx context.Context, courseID int64) ([]models.Student, error)
	AttendancesByCourse(ctx context.Context, courseID int64) ([]models.Attendance, error)
	EvaluationsByCourse(ctx context.Context, courseID int64) ([]models.Evaluation, error)
	GradesByCourse(ctx context.Context, courseID int64) ([]models.Grade, error)
	AttendancePercentage(ctx context.Context, studentID, courseID int64) (float64, error)
}

// Errors holds the last error per loading area. A new attempt in an area
// supersedes its previous error; success clears it. Failures are scoped:
// one collection failing to load leaves the others' state intact.
type Errors struct {
	Students    string
	Attendances string
	Evaluations string
	Grades      string
	Save        string
}

// Session is the reconciled state of one loaded course. Store and overlay
// are touched by the save fan-in goroutines as well as callers, so every
// access goes through one mutex.
type Session struct {
	api      API
	log      *zap.SugaredLogger
	saver    *attendance.Saver
	gradeSvc *grades.Service

	refreshDelay time.Duration
	loc          *time.Location

	mu          sync.Mutex
	courseID    int64
	date        string
	students    []models.Student
	store       *attendance.Store
	overlay     *attendance.Overlay
	book        *grades.Book
	percentages map[int64]float64 // server-computed, by student id
	errs        Errors
}

func NewSession(remote API, log *zap.SugaredLogger, loc *time.Location, refreshDelay time.Duration) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		api:          remote,
		log:          log,
		saver:        attendance.NewSaver(remote, log),
		gradeSvc:     grades.NewService(remote, log),
		refreshDelay: refreshDelay,
		loc:          loc,
		date:         time.Now().In(loc).Format("2006-01-02"),
		store:        attendance.NewStore(),
		overlay:      attendance.NewOverlay(),
		book:         grades.NewBook(),
		percentages:  make(map[int64]float64),
	}
}

// Load pulls every collection for the course. Each one loads independently;
// a failure flags its own area and leaves the rest of the session alone.
func (s *Session) Load(ctx context.Context, courseID int64) {
	s.mu.Lock()
	s.courseID = courseID
	s.mu.Unlock()
	ctx = ctxutil.WithCourseID(ctx, courseID)

	lctx, cancel := ctxutil.WithAPITimeout(ctx)
	students, err := s.api.StudentsByCourse(lctx, courseID)
	cancel()
	s.mu.Lock()
	if err != nil {
		s.errs.Students = "Error al cargar alumnos: " + err.Error()
	} else {
		s.students = students
		s.errs.Students = ""
	}
	s.mu.Unlock()

	lctx, cancel = ctxutil.WithAPITimeout(ctx)
	attendances, err := s.api.AttendancesByCourse(lctx, courseID)
	cancel()
	s.mu.Lock()
	if err != nil {
		s.errs.Attendances = "Error al cargar asistencias: " + err.Error()
	} else {
		s.store.Replace(attendances)
		s.errs.Attendances = ""
	}
	s.mu.Unlock()

	lctx, cancel = ctxutil.WithAPITimeout(ctx)
	evaluations, err := s.api.EvaluationsByCourse(lctx, courseID)
	cancel()
	s.mu.Lock()
	if err != nil {
		s.errs.Evaluations = "Error al cargar evaluaciones: " + err.Error()
	} else {
		s.book.ReplaceEvaluations(evaluations)
		s.errs.Evaluations = ""
	}
	s.mu.Unlock()

	lctx, cancel = ctxutil.WithAPITimeout(ctx)
	gs, err := s.api.GradesByCourse(lctx, courseID)
	cancel()
	s.mu.Lock()
	if err != nil {
		s.errs.Grades = "Error al cargar notas: " + err.Error()
	} else {
		s.book.ReplaceGrades(gs)
		s.errs.Grades = ""
	}
	s.mu.Unlock()

	s.RefreshPercentages(ctx)
}

// RefreshPercentages pulls the server-computed percentage per student, in
// parallel. A student whose call fails falls back to 0 rather than holding
// a stale number.
func (s *Session) RefreshPercentages(ctx context.Context) {
	s.mu.Lock()
	students := make([]models.Student, len(s.students))
	copy(students, s.students)
	courseID := s.courseID
	s.mu.Unlock()

	type pct struct {
		id    int64
		value float64
	}
	results := make(chan pct, len(students))
	n := 0
	for _, st := range students {
		if st.ID == nil {
			continue
		}
		n++
		go func(id int64) {
			pctx, cancel := ctxutil.WithAPITimeout(ctx)
			defer cancel()
			v, err := s.api.AttendancePercentage(pctx, id, courseID)
			if err != nil {
				s.log.Debugw("percentage fetch failed", "student", id, "err", err)
				v = 0
			}
			results <- pct{id: id, value: v}
		}(*st.ID)
	}

	fresh := make(map[int64]float64, n)
	for i := 0; i < n; i++ {
		r := <-results
		fresh[r.id] = r.value
	}
	s.mu.Lock()
	s.percentages = fresh
	s.mu.Unlock()
}

// SetDate moves the session to another class date. Pending marks are tied
// to the date being edited, so they are discarded wholesale.
func (s *Session) SetDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if date == s.date {
		return
	}
	s.date = date
	s.overlay.Clear()
}

func (s *Session) Date() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// Mark records a pending present/absent choice for the current date. Nothing
// is persisted until SaveAll.
func (s *Session) Mark(studentID int64, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Set(studentID, s.date, present)
}

// Effective resolves one cell through the pending → stored → default ladder.
func (s *Session) Effective(studentID int64, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attendance.NewView(s.store, s.overlay).Effective(studentID, date)
}

// SaveAll persists the effective value for every student on the current
// date, then reconciles: overlay cleared, record set reloaded from the
// server, and — after a short lag that lets the remote store settle its
// own derived numbers — the server percentages refreshed. The overlay is
// cleared even on partial failure; the reload brings back whatever the
// server actually kept.
func (s *Session) SaveAll(ctx context.Context) attendance.Report {
	s.mu.Lock()
	courseID := s.courseID
	date := s.date
	students := make([]models.Student, len(s.students))
	copy(students, s.students)
	store := s.store.Clone()
	overlay := s.overlay.Clone()
	s.mu.Unlock()

	rep := s.saver.SaveAll(ctx, courseID, date, students, store, overlay)
	for _, f := range rep.Failures {
		observability.CaptureErr(f.Err)
	}

	s.mu.Lock()
	s.overlay.Clear()
	if msg := rep.Message(); msg != "" {
		s.errs.Save = msg
	} else {
		s.errs.Save = ""
	}
	s.mu.Unlock()

	// authoritative resync
	rctx, cancel := ctxutil.WithAPITimeout(ctx)
	attendances, err := s.api.AttendancesByCourse(rctx, courseID)
	cancel()
	s.mu.Lock()
	if err != nil {
		s.errs.Attendances = "Error al cargar asistencias: " + err.Error()
	} else {
		s.store.Replace(attendances)
		s.errs.Attendances = ""
	}
	s.mu.Unlock()

	if s.refreshDelay > 0 {
		t := time.NewTimer(s.refreshDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return rep
		case <-t.C:
		}
	}
	s.RefreshPercentages(ctx)
	return rep
}

// SetGrade validates and persists one grade for the student/evaluation
// pair, reusing the stored record's id when one exists.
func (s *Session) SetGrade(ctx context.Context, studentID, evaluationID int64, value float64) (models.Grade, error) {
	s.mu.Lock()
	g := models.Grade{
		CourseID:     s.courseID,
		StudentID:    studentID,
		EvaluationID: evaluationID,
		Grade:        value,
	}
	if existing := s.book.Find(studentID, evaluationID); existing != nil {
		g.ID = existing.ID
	}
	s.mu.Unlock()

	saved, err := s.gradeSvc.Set(ctx, s.book, g)
	s.mu.Lock()
	if err != nil {
		s.errs.Grades = err.Error()
	} else {
		s.errs.Grades = ""
	}
	s.mu.Unlock()
	return saved, err
}

func (s *Session) AddEvaluation(ctx context.Context, name, date, kind string) (models.Evaluation, error) {
	s.mu.Lock()
	ev := models.Evaluation{CourseID: s.courseID, Name: name, Date: date, Kind: kind}
	if ev.Date == "" {
		ev.Date = time.Now().In(s.loc).Format("2006-01-02")
	}
	s.mu.Unlock()
	return s.gradeSvc.AddEvaluation(ctx, s.book, ev)
}

func (s *Session) DeleteEvaluation(ctx context.Context, id int64) error {
	return s.gradeSvc.DeleteEvaluation(ctx, s.book, id)
}

// Snapshot accessors for display and export.

func (s *Session) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Student, len(s.students))
	copy(out, s.students)
	return out
}

// View returns an aggregator over a stable copy of the current state.
func (s *Session) View() *attendance.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attendance.NewView(s.store.Clone(), s.overlay.Clone())
}

func (s *Session) Book() *grades.Book { return s.book }

// Percentage returns the last server-computed percentage for the student.
func (s *Session) Percentage(studentID int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percentages[studentID]
}

func (s *Session) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

func (s *Session) CourseID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courseID
}
