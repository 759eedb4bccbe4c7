package grades

import (
	"context"
	"strings"
	"testing"

	"github.com/mparedes/rollbook/internal/models"
	"go.uber.org/zap"
)

type fakeRemote struct {
	setCalls  int
	lastGrade models.Grade
	created   []models.Evaluation
	deleted   []int64
	nextID    int64
}

func (f *fakeRemote) SetGrade(_ context.Context, g models.Grade) (models.Grade, error) {
	f.setCalls++
	f.lastGrade = g
	if g.ID == nil {
		f.nextID++
		g.ID = ptrInt64(f.nextID)
	}
	return g, nil
}

func (f *fakeRemote) CreateEvaluation(_ context.Context, ev models.Evaluation) (models.Evaluation, error) {
	f.nextID++
	ev.ID = ptrInt64(f.nextID)
	f.created = append(f.created, ev)
	return ev, nil
}

func (f *fakeRemote) DeleteEvaluation(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSetRejectsOutOfRangeBeforeAnyCall(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, zap.NewNop().Sugar())
	book := NewBook()

	_, err := svc.Set(context.Background(), book,
		models.Grade{CourseID: 1, StudentID: 1, EvaluationID: 10, Grade: 11})
	if err == nil {
		t.Fatal("grade 11 must be rejected")
	}
	if !strings.Contains(err.Error(), "0") || !strings.Contains(err.Error(), "10") {
		t.Fatalf("error %q must mention the valid range", err)
	}
	if remote.setCalls != 0 {
		t.Fatal("no remote call may be issued for an invalid grade")
	}
	if len(book.Grades()) != 0 {
		t.Fatal("nothing may be stored locally either")
	}
}

func TestSetCreatesWithoutIDAndMerges(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, zap.NewNop().Sugar())
	book := NewBook()

	saved, err := svc.Set(context.Background(), book,
		models.Grade{CourseID: 1, StudentID: 1, EvaluationID: 10, Grade: 8})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == nil {
		t.Fatal("server id missing on created grade")
	}
	if remote.lastGrade.ID != nil {
		t.Fatal("create must go out without an id")
	}
	if book.Find(1, 10) == nil {
		t.Fatal("saved grade must land in the book")
	}
}

func TestSetUpdatesWithID(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, zap.NewNop().Sugar())
	book := NewBook()
	book.ReplaceGrades([]models.Grade{grade(5, 1, 10, 6)})

	_, err := svc.Set(context.Background(), book, grade(5, 1, 10, 9))
	if err != nil {
		t.Fatal(err)
	}
	if remote.lastGrade.ID == nil || *remote.lastGrade.ID != 5 {
		t.Fatal("update must carry the existing id")
	}
	if g := book.Find(1, 10); g == nil || g.Grade != 9 {
		t.Fatal("book must reflect the confirmed value")
	}
	if len(book.Grades()) != 1 {
		t.Fatalf("len = %d, duplicates after update", len(book.Grades()))
	}
}

func TestAddEvaluationRequiresName(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, zap.NewNop().Sugar())

	_, err := svc.AddEvaluation(context.Background(), NewBook(),
		models.Evaluation{CourseID: 1, Name: "   "})
	if err == nil {
		t.Fatal("blank name must be rejected")
	}
	if len(remote.created) != 0 {
		t.Fatal("no remote call for an invalid evaluation")
	}
}

func TestDeleteEvaluationCascadesLocally(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, zap.NewNop().Sugar())
	book := NewBook()
	book.ReplaceEvaluations([]models.Evaluation{{ID: ptrInt64(10), CourseID: 1, Name: "TP"}})
	book.ReplaceGrades([]models.Grade{grade(1, 1, 10, 7)})

	if err := svc.DeleteEvaluation(context.Background(), book, 10); err != nil {
		t.Fatal(err)
	}
	if len(remote.deleted) != 1 || remote.deleted[0] != 10 {
		t.Fatalf("deleted = %v, want [10]", remote.deleted)
	}
	if len(book.Evaluations()) != 0 || len(book.Grades()) != 0 {
		t.Fatal("local cascade missing")
	}
}
