package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mparedes/rollbook/internal/models"
)

func (c *Client) EvaluationsByCourse(ctx context.Context, courseID int64) ([]models.Evaluation, error) {
	var out []models.Evaluation
	err := c.do(ctx, "evaluations_by_course", http.MethodGet,
		fmt.Sprintf("/evaluations/course/%d", courseID), nil, &out)
	return out, err
}

func (c *Client) CreateEvaluation(ctx context.Context, ev models.Evaluation) (models.Evaluation, error) {
	var out models.Evaluation
	err := c.do(ctx, "create_evaluation", http.MethodPost, "/evaluations", ev, &out)
	return out, err
}

func (c *Client) DeleteEvaluation(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_evaluation", http.MethodDelete,
		fmt.Sprintf("/evaluations/%d", id), nil, nil)
}
