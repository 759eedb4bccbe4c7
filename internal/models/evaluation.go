package models

// Evaluation is a named, dated assessment within a course ("Parcial 1",
// a practical, homework...). Kind is free-form, the server does not
// constrain it.
type Evaluation struct {
	ID       *int64 `json:"id,omitempty"`
	CourseID int64  `json:"courseId"`
	Name     string `json:"nombre"`
	Date     string `json:"date"`
	Kind     string `json:"tipo"`
}
