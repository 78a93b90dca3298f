package wizard

import (
	"encoding/json"
	"time"

	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
)

// Apply aplica un evento de edición sobre una copia de s.
func Apply(s *entity.Session, ev Event, now time.Time) (*entity.Session, error) {
	if s.Step != entity.StepEdit {
		return nil, domain.ErrInvalidStep
	}
	next := s.Clone()
	if err := ev.apply(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = now
	return next, nil
}

// ToReview pasa a revisión guardando el payload generado. Solo desde edición.
func ToReview(s *entity.Session, payload json.RawMessage, now time.Time) (*entity.Session, error) {
	if s.Step != entity.StepEdit {
		return nil, domain.ErrInvalidStep
	}
	next := s.Clone()
	next.Step = entity.StepReview
	next.LastPayload = append(json.RawMessage(nil), payload...)
	next.UpdatedAt = now
	return next, nil
}

// Confirm pasa de revisión a confirmado.
func Confirm(s *entity.Session, now time.Time) (*entity.Session, error) {
	if s.Step != entity.StepReview || len(s.LastPayload) == 0 {
		return nil, domain.ErrInvalidStep
	}
	next := s.Clone()
	next.Step = entity.StepConfirmed
	next.UpdatedAt = now
	return next, nil
}

// BackToEdit vuelve a edición desde cualquier paso.
func BackToEdit(s *entity.Session, now time.Time) *entity.Session {
	next := s.Clone()
	next.Step = entity.StepEdit
	next.UpdatedAt = now
	return next
}

// RecordSubmission registra el resultado del guardado local y del envío al webhook.
// Solo aplica en el paso confirmado; puede repetirse para reintentar.
func RecordSubmission(s *entity.Session, savedPath string, saveErr error, result *entity.SubmissionResult, now time.Time) (*entity.Session, error) {
	if s.Step != entity.StepConfirmed {
		return nil, domain.ErrInvalidStep
	}
	next := s.Clone()
	next.LastSavedPath = savedPath
	next.LastSaveError = ""
	if saveErr != nil {
		next.LastSaveError = saveErr.Error()
	}
	if result != nil {
		r := *result
		next.LastSubmission = &r
	}
	next.UpdatedAt = now
	return next, nil
}
