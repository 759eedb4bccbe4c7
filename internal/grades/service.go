package grades

import (
	"context"
	"fmt"
	"strings"

	"github.com/mparedes/rollbook/internal/models"
	"go.uber.org/zap"
)

// RemoteStore is the slice of the API the grade service needs.
type RemoteStore interface {
	SetGrade(ctx context.Context, g models.Grade) (models.Grade, error)
	CreateEvaluation(ctx context.Context, ev models.Evaluation) (models.Evaluation, error)
	DeleteEvaluation(ctx context.Context, id int64) error
}

// CheckGrade gates a value before any remote call. The server enforces the
// same range; rejecting locally saves the round trip and gives the message
// immediately.
func CheckGrade(v float64) error {
	if v < models.GradeMin || v > models.GradeMax {
		return fmt.Errorf("nota %v fuera de rango: debe estar entre %d y %d",
			v, models.GradeMin, models.GradeMax)
	}
	return nil
}

// Service applies grade and evaluation changes to the remote store and
// keeps the local book in step.
type Service struct {
	api RemoteStore
	log *zap.SugaredLogger
}

func NewService(api RemoteStore, log *zap.SugaredLogger) *Service {
	return &Service{api: api, log: log}
}

// Set validates and persists one grade: update when it already has an id,
// create otherwise. The confirmed server copy is merged into the book.
func (s *Service) Set(ctx context.Context, book *Book, g models.Grade) (models.Grade, error) {
	if err := CheckGrade(g.Grade); err != nil {
		return models.Grade{}, err
	}
	saved, err := s.api.SetGrade(ctx, g)
	if err != nil {
		s.log.Warnw("grade save failed",
			"student", g.StudentID, "evaluation", g.EvaluationID, "err", err)
		return models.Grade{}, fmt.Errorf("no se pudo guardar la nota: %w", err)
	}
	book.UpsertGrade(saved)
	return saved, nil
}

// AddEvaluation creates a named assessment. An empty name is rejected
// before any call; a missing date defaults server-side.
func (s *Service) AddEvaluation(ctx context.Context, book *Book, ev models.Evaluation) (models.Evaluation, error) {
	ev.Name = strings.TrimSpace(ev.Name)
	if ev.Name == "" {
		return models.Evaluation{}, fmt.Errorf("el nombre de la evaluación es obligatorio")
	}
	if ev.Kind == "" {
		ev.Kind = "examen"
	}
	created, err := s.api.CreateEvaluation(ctx, ev)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("no se pudo crear la evaluación: %w", err)
	}
	book.AddEvaluation(created)
	return created, nil
}

// DeleteEvaluation removes the assessment remotely, then cascades the
// local book so its grades disappear with it.
func (s *Service) DeleteEvaluation(ctx context.Context, book *Book, id int64) error {
	if err := s.api.DeleteEvaluation(ctx, id); err != nil {
		return fmt.Errorf("no se pudo eliminar la evaluación: %w", err)
	}
	book.RemoveEvaluation(id)
	return nil
}
