package attendance

import (
	"context"
	"fmt"
	"strings"

	"github.com/mparedes/rollbook/internal/metrics"
	"github.com/mparedes/rollbook/internal/models"
	"go.uber.org/zap"
)

// RemoteStore is the slice of the API the saver needs.
type RemoteStore interface {
	CreateAttendance(ctx context.Context, rec models.Attendance) (models.Attendance, error)
	UpdateAttendance(ctx context.Context, id int64, rec models.Attendance) (models.Attendance, error)
}

// Failure attributes one failed record to its student.
type Failure struct {
	StudentID int64
	Student   string
	Err       error
}

// Report sums up one bulk save. A save can partially succeed: some records
// land, some fail, nothing is rolled back.
type Report struct {
	Created  int
	Updated  int
	Skipped  int
	Failures []Failure
}

func (r Report) Failed() int { return len(r.Failures) }

// Message renders the user-visible error line, one entry per failed
// student. Empty when everything landed.
func (r Report) Message() string {
	if len(r.Failures) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		parts = append(parts, fmt.Sprintf("Error al guardar asistencia para %s", f.Student))
	}
	return strings.Join(parts, "; ")
}

// Saver reconciles the overlay and the record set into the remote store.
// Per-record calls are independent: they run in parallel, complete in any
// order and fail in isolation.
type Saver struct {
	api RemoteStore
	log *zap.SugaredLogger
}

func NewSaver(api RemoteStore, log *zap.SugaredLogger) *Saver {
	return &Saver{api: api, log: log}
}

type saveAction int

const (
	actionCreate saveAction = iota
	actionUpdate
)

type saveTask struct {
	student models.Student
	action  saveAction
	rec     models.Attendance
	id      int64 // update target
}

type saveResult struct {
	task saveTask
	err  error
}

// SaveAll persists the effective value for every student on one date.
// Inputs are snapshotted before any call is issued; a concurrent overlay
// or store mutation does not affect a save already in flight.
//
// Per student: pending mark wins, else the stored value, else
// DefaultPresent. A stored record already carrying the resolved value is
// settled without a network call; a differing record gets an update by id;
// a missing record gets a create.
func (s *Saver) SaveAll(ctx context.Context, courseID int64, date string, students []models.Student, store *Store, overlay *Overlay) Report {
	var rep Report
	if len(students) == 0 {
		return rep
	}

	view := NewView(store, overlay)
	var tasks []saveTask
	for _, st := range students {
		if st.ID == nil {
			// not yet persisted, nothing to attach a record to
			rep.Skipped++
			continue
		}
		sid := *st.ID
		value := view.Effective(sid, date)
		existing := store.Find(sid, date)
		switch {
		case existing == nil:
			tasks = append(tasks, saveTask{
				student: st,
				action:  actionCreate,
				rec: models.Attendance{
					CourseID:  courseID,
					StudentID: sid,
					Date:      date,
					Present:   value,
				},
			})
		case existing.Present == value:
			rep.Skipped++
		case existing.ID == nil:
			// cannot update a record the server never acknowledged
			rep.Skipped++
		default:
			upd := *existing
			upd.Present = value
			tasks = append(tasks, saveTask{student: st, action: actionUpdate, rec: upd, id: *existing.ID})
		}
	}

	results := make(chan saveResult, len(tasks))
	for _, t := range tasks {
		go func(t saveTask) {
			var err error
			if t.action == actionUpdate {
				_, err = s.api.UpdateAttendance(ctx, t.id, t.rec)
			} else {
				_, err = s.api.CreateAttendance(ctx, t.rec)
			}
			results <- saveResult{task: t, err: err}
		}(t)
	}

	for range tasks {
		res := <-results
		if res.err != nil {
			rep.Failures = append(rep.Failures, Failure{
				StudentID: res.task.rec.StudentID,
				Student:   res.task.student.FullName(),
				Err:       res.err,
			})
			s.log.Warnw("attendance save failed",
				"course", courseID, "date", date,
				"student", res.task.rec.StudentID, "err", res.err)
			continue
		}
		if res.task.action == actionUpdate {
			rep.Updated++
		} else {
			rep.Created++
		}
	}

	metrics.SaveRecords.WithLabelValues("created").Add(float64(rep.Created))
	metrics.SaveRecords.WithLabelValues("updated").Add(float64(rep.Updated))
	metrics.SaveRecords.WithLabelValues("skipped").Add(float64(rep.Skipped))
	metrics.SaveRecords.WithLabelValues("failed").Add(float64(rep.Failed()))
	if rep.Failed() > 0 {
		metrics.SaveFailures.Inc()
	}
	return rep
}

// Toggle persists a single cell immediately, no overlay involved: update
// when the record has an id, create otherwise. The caller merges the
// returned server record into its store.
func (s *Saver) Toggle(ctx context.Context, rec models.Attendance) (models.Attendance, error) {
	if rec.ID != nil {
		return s.api.UpdateAttendance(ctx, *rec.ID, rec)
	}
	return s.api.CreateAttendance(ctx, rec)
}

// MarkAll sets every existing record on one date to the same value. Updates
// run in parallel; records without a server id are skipped. The store is
// mutated up front, so local and remote state may disagree until the last
// call settles.
func (s *Saver) MarkAll(ctx context.Context, date string, present bool, students []models.Student, store *Store) Report {
	var rep Report
	recs := store.ForDate(date)

	names := make(map[int64]string, len(students))
	for _, st := range students {
		if st.ID != nil {
			names[*st.ID] = st.FullName()
		}
	}

	var tasks []saveTask
	for _, rec := range recs {
		upd := rec
		upd.Present = present
		store.setPresent(rec.StudentID, rec.Date, present)
		if rec.ID == nil {
			rep.Skipped++
			continue
		}
		tasks = append(tasks, saveTask{
			student: models.Student{FirstName: names[rec.StudentID]},
			action:  actionUpdate,
			rec:     upd,
			id:      *rec.ID,
		})
	}

	results := make(chan saveResult, len(tasks))
	for _, t := range tasks {
		go func(t saveTask) {
			_, err := s.api.UpdateAttendance(ctx, t.id, t.rec)
			results <- saveResult{task: t, err: err}
		}(t)
	}
	for range tasks {
		res := <-results
		if res.err != nil {
			rep.Failures = append(rep.Failures, Failure{
				StudentID: res.task.rec.StudentID,
				Student:   names[res.task.rec.StudentID],
				Err:       res.err,
			})
			continue
		}
		rep.Updated++
	}
	return rep
}
