// Package attendance holds the in-memory attendance state for one loaded
// course and the logic that reconciles it with the remote store: the record
// set, the pending-edit overlay, effective-value resolution and the bulk
// save fan-out.
package attendance

import (
	"sort"

	"github.com/mparedes/rollbook/internal/models"
)

// Store is the normalized record set for one course. Loads replace the
// contents wholesale; there is no partial merge. At most one record exists
// per (student, date).
type Store struct {
	records []models.Attendance
}

func NewStore() *Store { return &Store{} }

// Replace swaps in a fresh server snapshot, discarding everything held.
func (s *Store) Replace(records []models.Attendance) {
	s.records = make([]models.Attendance, len(records))
	copy(s.records, records)
}

// Upsert replaces the record with the same id, or appends when the id is
// new or absent.
func (s *Store) Upsert(rec models.Attendance) {
	if rec.ID != nil {
		for i := range s.records {
			if s.records[i].ID != nil && *s.records[i].ID == *rec.ID {
				s.records[i] = rec
				return
			}
		}
	}
	s.records = append(s.records, rec)
}

// setPresent rewrites the flag on the stored record for (studentID, date)
// in place, without touching identity. No-op when no record exists.
func (s *Store) setPresent(studentID int64, date string, present bool) {
	for i := range s.records {
		if s.records[i].StudentID == studentID && s.records[i].Date == date {
			s.records[i].Present = present
		}
	}
}

// Find returns the record for (studentID, date), or nil.
func (s *Store) Find(studentID int64, date string) *models.Attendance {
	for i := range s.records {
		if s.records[i].StudentID == studentID && s.records[i].Date == date {
			return &s.records[i]
		}
	}
	return nil
}

// ForDate returns the records carrying the given date.
func (s *Store) ForDate(date string) []models.Attendance {
	var out []models.Attendance
	for _, r := range s.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// Dates returns every distinct date present, ascending. ISO dates sort
// lexicographically, so plain string order is calendar order.
func (s *Store) Dates() []string {
	seen := make(map[string]struct{}, len(s.records))
	var out []string
	for _, r := range s.records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		out = append(out, r.Date)
	}
	sort.Strings(out)
	return out
}

// Records returns a copy of the full set.
func (s *Store) Records() []models.Attendance {
	out := make([]models.Attendance, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int { return len(s.records) }

// Clone copies the set so a save can plan against a stable snapshot.
func (s *Store) Clone() *Store {
	c := NewStore()
	c.Replace(s.records)
	return c
}
