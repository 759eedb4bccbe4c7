package attendance

import "math"

// DefaultPresent is the policy value for a student with no stored record
// and no pending mark: attendance is assumed, absence is the exception.
// This is a convenience default, not an inferred fact; every resolution
// site (display, save, percentages, totals) must go through it.
const DefaultPresent = true

// View derives statistics from a record set plus its overlay. It holds no
// state of its own; every accessor recomputes from scratch so the numbers
// can never drift from the records.
type View struct {
	Store   *Store
	Overlay *Overlay
}

func NewView(store *Store, overlay *Overlay) *View {
	return &View{Store: store, Overlay: overlay}
}

// Effective resolves the present/absent value for one cell: pending mark
// first, then the stored record, then DefaultPresent. Total — every
// (student, date) pair resolves to a value.
func (v *View) Effective(studentID int64, date string) bool {
	if pending, ok := v.Overlay.Get(studentID, date); ok {
		return pending
	}
	if rec := v.Store.Find(studentID, date); rec != nil {
		return rec.Present
	}
	return DefaultPresent
}

// Dates returns the distinct loaded dates, ascending. Export columns follow
// this order.
func (v *View) Dates() []string { return v.Store.Dates() }

// Percentage is the share of loaded dates on which the student's effective
// value is present, rounded to the nearest integer. The denominator is the
// count of distinct dates, so a student without a record on some date
// counts as present there, same policy as Effective. Zero when no dates
// are loaded.
func (v *View) Percentage(studentID int64) int {
	dates := v.Store.Dates()
	if len(dates) == 0 {
		return 0
	}
	present := 0
	for _, d := range dates {
		if v.Effective(studentID, d) {
			present++
		}
	}
	return int(math.Round(100 * float64(present) / float64(len(dates))))
}

// TotalPresent counts the students whose effective value on the date is
// present, over the given roster.
func (v *View) TotalPresent(date string, studentIDs []int64) int {
	n := 0
	for _, id := range studentIDs {
		if v.Effective(id, date) {
			n++
		}
	}
	return n
}
