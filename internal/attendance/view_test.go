package attendance

import (
	"testing"

	"github.com/mparedes/rollbook/internal/models"
)

func ptrInt64(v int64) *int64 { return &v }

func rec(id, studentID int64, date string, present bool) models.Attendance {
	return models.Attendance{ID: ptrInt64(id), CourseID: 1, StudentID: studentID, Date: date, Present: present}
}

func TestEffectiveDefaultPresent(t *testing.T) {
	view := NewView(NewStore(), NewOverlay())
	if !view.Effective(7, "2024-03-01") {
		t.Fatal("student with no record and no pending mark must resolve to present")
	}
}

func TestEffectivePendingWinsOverRecord(t *testing.T) {
	store := NewStore()
	store.Replace([]models.Attendance{rec(55, 1, "2024-03-01", true)})
	overlay := NewOverlay()
	overlay.Set(1, "2024-03-01", false)

	view := NewView(store, overlay)
	if view.Effective(1, "2024-03-01") {
		t.Fatal("pending mark must win over the stored record")
	}

	overlay.Clear()
	if !view.Effective(1, "2024-03-01") {
		t.Fatal("after clearing the overlay the stored value must show through")
	}
}

func TestDatesDedupedAndSorted(t *testing.T) {
	store := NewStore()
	store.Replace([]models.Attendance{
		rec(1, 1, "2024-03-01", true),
		rec(2, 2, "2024-02-15", true),
		rec(3, 3, "2024-03-01", false),
	})
	got := store.Dates()
	want := []string{"2024-02-15", "2024-03-01"}
	if len(got) != len(want) {
		t.Fatalf("dates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dates = %v, want %v", got, want)
		}
	}
}

func TestPercentage(t *testing.T) {
	store := NewStore()
	overlay := NewOverlay()
	view := NewView(store, overlay)

	if got := view.Percentage(1); got != 0 {
		t.Fatalf("percentage with no dates = %d, want 0", got)
	}

	// three dates, student 1 absent on one of them
	store.Replace([]models.Attendance{
		rec(1, 1, "2024-03-01", true),
		rec(2, 1, "2024-03-08", false),
		rec(3, 2, "2024-03-15", true),
	})
	// 2024-03-15 has no record for student 1: default-present
	if got := view.Percentage(1); got != 67 {
		t.Fatalf("percentage = %d, want 67", got)
	}

	// a pending mark changes the numbers immediately
	overlay.Set(1, "2024-03-15", false)
	if got := view.Percentage(1); got != 33 {
		t.Fatalf("percentage with pending absent = %d, want 33", got)
	}

	for id := int64(1); id <= 3; id++ {
		if p := view.Percentage(id); p < 0 || p > 100 {
			t.Fatalf("percentage out of range: %d", p)
		}
	}
}

func TestTotalPresent(t *testing.T) {
	store := NewStore()
	store.Replace([]models.Attendance{
		rec(1, 1, "2024-03-01", false),
		rec(2, 2, "2024-03-01", true),
	})
	overlay := NewOverlay()
	view := NewView(store, overlay)

	// student 3 has no record: counts as present under the same policy
	if got := view.TotalPresent("2024-03-01", []int64{1, 2, 3}); got != 2 {
		t.Fatalf("total present = %d, want 2", got)
	}

	overlay.Set(2, "2024-03-01", false)
	if got := view.TotalPresent("2024-03-01", []int64{1, 2, 3}); got != 1 {
		t.Fatalf("total present after pending mark = %d, want 1", got)
	}
}
