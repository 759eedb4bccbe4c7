package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mparedes/rollbook/internal/models"
)

func (c *Client) GradesByCourse(ctx context.Context, courseID int64) ([]models.Grade, error) {
	var out []models.Grade
	err := c.do(ctx, "grades_by_course", http.MethodGet,
		fmt.Sprintf("/grades/course/%d", courseID), nil, &out)
	return out, err
}

func (c *Client) GradesByEvaluation(ctx context.Context, evaluationID int64) ([]models.Grade, error) {
	var out []models.Grade
	err := c.do(ctx, "grades_by_evaluation", http.MethodGet,
		fmt.Sprintf("/grades/evaluation/%d", evaluationID), nil, &out)
	return out, err
}

// SetGrade creates or updates depending on id presence, mirroring the
// server's POST/PUT split.
func (c *Client) SetGrade(ctx context.Context, g models.Grade) (models.Grade, error) {
	var out models.Grade
	if g.ID != nil {
		err := c.do(ctx, "update_grade", http.MethodPut,
			fmt.Sprintf("/grades/%d", *g.ID), g, &out)
		return out, err
	}
	err := c.do(ctx, "create_grade", http.MethodPost, "/grades", g, &out)
	return out, err
}

func (c *Client) StudentAverage(ctx context.Context, studentID, courseID int64) (models.StudentAverage, error) {
	var out models.StudentAverage
	err := c.do(ctx, "student_average", http.MethodGet,
		fmt.Sprintf("/grades/student/%d/course/%d/average", studentID, courseID), nil, &out)
	return out, err
}

func (c *Client) AveragesByCourse(ctx context.Context, courseID int64) ([]models.StudentAverage, error) {
	var out []models.StudentAverage
	err := c.do(ctx, "averages_by_course", http.MethodGet,
		fmt.Sprintf("/grades/%d/averages", courseID), nil, &out)
	return out, err
}
