package models

import "strings"

// Student belongs to exactly one course. ID is nil until the remote store
// has persisted the student.
type Student struct {
	ID        *int64 `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"cel,omitempty"`
	Document  string `json:"document,omitempty"`
	CourseID  int64  `json:"courseId"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
