package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mparedes/rollbook/internal/models"
	"go.uber.org/zap"
)

func ptrInt64(v int64) *int64 { return &v }

// fakeAPI is an in-memory remote store.
type fakeAPI struct {
	mu            sync.Mutex
	students      []models.Student
	attendances   []models.Attendance
	evaluations   []models.Evaluation
	grades        []models.Grade
	pct           map[int64]float64
	failCreateFor map[int64]error
	loadAttErr    error
	nextID        int64
	pctCalls      int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pct:           make(map[int64]float64),
		failCreateFor: make(map[int64]error),
		nextID:        1000,
	}
}

func (f *fakeAPI) StudentsByCourse(context.Context, int64) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeAPI) AttendancesByCourse(context.Context, int64) ([]models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadAttErr != nil {
		return nil, f.loadAttErr
	}
	return append([]models.Attendance(nil), f.attendances...), nil
}

func (f *fakeAPI) EvaluationsByCourse(context.Context, int64) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Evaluation(nil), f.evaluations...), nil
}

func (f *fakeAPI) GradesByCourse(context.Context, int64) ([]models.Grade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Grade(nil), f.grades...), nil
}

func (f *fakeAPI) AttendancePercentage(_ context.Context, studentID, _ int64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pctCalls++
	return f.pct[studentID], nil
}

func (f *fakeAPI) CreateAttendance(_ context.Context, rec models.Attendance) (models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failCreateFor[rec.StudentID]; err != nil {
		return models.Attendance{}, err
	}
	f.nextID++
	rec.ID = ptrInt64(f.nextID)
	f.attendances = append(f.attendances, rec)
	return rec, nil
}

func (f *fakeAPI) UpdateAttendance(_ context.Context, id int64, rec models.Attendance) (models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.attendances {
		if f.attendances[i].ID != nil && *f.attendances[i].ID == id {
			f.attendances[i] = rec
			return rec, nil
		}
	}
	return models.Attendance{}, errors.New("no such record")
}

func (f *fakeAPI) SetGrade(_ context.Context, g models.Grade) (models.Grade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID == nil {
		f.nextID++
		g.ID = ptrInt64(f.nextID)
	}
	return g, nil
}

func (f *fakeAPI) CreateEvaluation(_ context.Context, ev models.Evaluation) (models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ev.ID = ptrInt64(f.nextID)
	f.evaluations = append(f.evaluations, ev)
	return ev, nil
}

func (f *fakeAPI) DeleteEvaluation(context.Context, int64) error { return nil }

func roster() []models.Student {
	return []models.Student{
		{ID: ptrInt64(1), FirstName: "Ana", LastName: "Acosta", CourseID: 1},
		{ID: ptrInt64(2), FirstName: "Bruno", LastName: "Baez", CourseID: 1},
		{ID: ptrInt64(3), FirstName: "Clara", LastName: "Cruz", CourseID: 1},
	}
}

func newTestSession(remote *fakeAPI) *Session {
	return NewSession(remote, zap.NewNop().Sugar(), time.UTC, 0)
}

func TestSaveAllPartialFailure(t *testing.T) {
	remote := newFakeAPI()
	remote.students = roster()
	remote.failCreateFor[2] = errors.New("network down")

	s := newTestSession(remote)
	s.Load(context.Background(), 1)
	s.SetDate("2024-03-01")
	s.Mark(1, false)

	rep := s.SaveAll(context.Background())

	if rep.Created != 2 || rep.Failed() != 1 {
		t.Fatalf("report = %+v, want 2 creates and 1 failure", rep)
	}
	if msg := s.Errors().Save; !strings.Contains(msg, "Bruno") {
		t.Fatalf("save error %q must name the failed student", msg)
	}
	// overlay cleared even though the save partially failed
	s.mu.Lock()
	overlayLen := s.overlay.Len()
	storeLen := s.store.Len()
	s.mu.Unlock()
	if overlayLen != 0 {
		t.Fatal("overlay must be cleared after every save")
	}
	// the two successes came back with the authoritative reload
	if storeLen != 2 {
		t.Fatalf("store holds %d records after resync, want 2", storeLen)
	}
	if s.Effective(1, "2024-03-01") {
		t.Fatal("Ana's persisted absent mark must survive the resync")
	}
}

func TestSaveAllUnchangedRosterIssuesNoWrites(t *testing.T) {
	remote := newFakeAPI()
	remote.students = roster()
	remote.attendances = []models.Attendance{
		{ID: ptrInt64(1), CourseID: 1, StudentID: 1, Date: "2024-03-01", Present: true},
		{ID: ptrInt64(2), CourseID: 1, StudentID: 2, Date: "2024-03-01", Present: true},
		{ID: ptrInt64(3), CourseID: 1, StudentID: 3, Date: "2024-03-01", Present: true},
	}

	s := newTestSession(remote)
	s.Load(context.Background(), 1)
	s.SetDate("2024-03-01")

	rep := s.SaveAll(context.Background())
	if rep.Created != 0 || rep.Updated != 0 || rep.Skipped != 3 {
		t.Fatalf("report = %+v, want everything settled without a call", rep)
	}
}

func TestSetDateClearsPendingMarks(t *testing.T) {
	remote := newFakeAPI()
	remote.students = roster()

	s := newTestSession(remote)
	s.Load(context.Background(), 1)
	s.SetDate("2024-03-01")
	s.Mark(1, false)

	if s.Effective(1, "2024-03-01") {
		t.Fatal("pending mark not visible")
	}
	s.SetDate("2024-03-08")
	if !s.Effective(1, "2024-03-01") {
		t.Fatal("date change must discard pending marks")
	}
}

func TestLoadFailureIsCollectionScoped(t *testing.T) {
	remote := newFakeAPI()
	remote.students = roster()
	remote.loadAttErr = errors.New("boom")

	s := newTestSession(remote)
	s.Load(context.Background(), 1)

	errs := s.Errors()
	if errs.Attendances == "" {
		t.Fatal("attendance load failure must be flagged")
	}
	if errs.Students != "" {
		t.Fatal("other collections must stay clean")
	}
	if len(s.Students()) != 3 {
		t.Fatal("students must load despite the attendance failure")
	}

	// a later successful load clears the flag
	remote.mu.Lock()
	remote.loadAttErr = nil
	remote.mu.Unlock()
	s.Load(context.Background(), 1)
	if s.Errors().Attendances != "" {
		t.Fatal("error flag must clear on success")
	}
}

func TestSaveAllRefreshesServerPercentages(t *testing.T) {
	remote := newFakeAPI()
	remote.students = roster()
	remote.pct[1] = 50

	s := newTestSession(remote)
	s.Load(context.Background(), 1)
	s.SetDate("2024-03-01")

	remote.mu.Lock()
	remote.pct[1] = 75 // server recomputes after the writes land
	remote.mu.Unlock()

	s.SaveAll(context.Background())
	if got := s.Percentage(1); got != 75 {
		t.Fatalf("percentage = %v, want the refreshed 75", got)
	}
}

func TestSetGradeReusesExistingID(t *testing.T) {
	remote := newFakeAPI()
	remote.students = roster()
	remote.grades = []models.Grade{
		{ID: ptrInt64(9), CourseID: 1, StudentID: 1, EvaluationID: 4, Grade: 6},
	}

	s := newTestSession(remote)
	s.Load(context.Background(), 1)

	saved, err := s.SetGrade(context.Background(), 1, 4, 8.5)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == nil || *saved.ID != 9 {
		t.Fatalf("id = %v, want the existing 9", saved.ID)
	}
	if g := s.Book().Find(1, 4); g == nil || g.Grade != 8.5 {
		t.Fatal("book must carry the confirmed value")
	}
}
