package models

type Course struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProfessorID int64  `json:"professorId"`
}
