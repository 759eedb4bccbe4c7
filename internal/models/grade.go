package models

const (
	// GradeMin and GradeMax bound every grade value. The remote store
	// enforces the same range; we reject locally before any call.
	GradeMin = 0
	GradeMax = 10
)

// Grade is one mark for a student in one evaluation, at most one per
// (StudentID, EvaluationID) within a course.
type Grade struct {
	ID           *int64  `json:"id,omitempty"`
	CourseID     int64   `json:"courseId"`
	StudentID    int64   `json:"studentId"`
	EvaluationID int64   `json:"evaluationId"`
	Grade        float64 `json:"grade"`
}

// StudentAverage is the server-computed mean for one student in one course.
// Average is nil when the student has no grades yet.
type StudentAverage struct {
	StudentID int64    `json:"studentId"`
	CourseID  int64    `json:"courseId"`
	Average   *float64 `json:"average"`
	Message   string   `json:"message,omitempty"`
}
