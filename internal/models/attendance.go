package models

// Attendance is one present/absent mark for a student on a calendar date.
// Date is a plain ISO date (YYYY-MM-DD) so string order equals calendar
// order. At most one record may exist per (StudentID, Date) within a course.
type Attendance struct {
	ID        *int64 `json:"id,omitempty"`
	CourseID  int64  `json:"courseId"`
	StudentID int64  `json:"studentId"`
	Date      string `json:"date"`
	Present   bool   `json:"present"`
}
