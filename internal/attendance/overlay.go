package attendance

// Overlay holds marks the user has chosen but the remote store has not
// confirmed. It is consulted before the record set when resolving a cell
// and must be cleared in full on date change, after every bulk save and on
// logical reset.
type Overlay struct {
	marks map[cellKey]bool
}

type cellKey struct {
	studentID int64
	date      string
}

func NewOverlay() *Overlay {
	return &Overlay{marks: make(map[cellKey]bool)}
}

func (o *Overlay) Set(studentID int64, date string, present bool) {
	o.marks[cellKey{studentID, date}] = present
}

func (o *Overlay) Get(studentID int64, date string) (bool, bool) {
	v, ok := o.marks[cellKey{studentID, date}]
	return v, ok
}

func (o *Overlay) Clear() {
	o.marks = make(map[cellKey]bool)
}

// Clone copies the overlay so a save can work from a stable snapshot.
func (o *Overlay) Clone() *Overlay {
	c := NewOverlay()
	for k, v := range o.marks {
		c.marks[k] = v
	}
	return c
}

func (o *Overlay) Len() int { return len(o.marks) }
