package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mparedes/rollbook/internal/models"
)

func (c *Client) StudentsByCourse(ctx context.Context, courseID int64) ([]models.Student, error) {
	var out []models.Student
	err := c.do(ctx, "students_by_course", http.MethodGet,
		fmt.Sprintf("/students/course/%d", courseID), nil, &out)
	return out, err
}

func (c *Client) AddStudent(ctx context.Context, st models.Student) (models.Student, error) {
	var out models.Student
	err := c.do(ctx, "add_student", http.MethodPost, "/students", st, &out)
	return out, err
}

func (c *Client) CourseByID(ctx context.Context, id int64) (models.Course, error) {
	var out models.Course
	err := c.do(ctx, "course_by_id", http.MethodGet,
		fmt.Sprintf("/courses/%d", id), nil, &out)
	return out, err
}
