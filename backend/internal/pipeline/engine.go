// Package pipeline содержит правила движения кандидата по этапам воронки найма.
// Все функции чистые: хранение и публикация событий живут в services.
package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"teamshub/backend/internal/models"
)

var (
	// ErrUnknownStage целевой этап отсутствует в воронке
	ErrUnknownStage = errors.New("stage is not part of the pipeline")
	// ErrInvalidStages некорректный список этапов
	ErrInvalidStages = errors.New("invalid pipeline stages")
)

var validate = validator.New()

// DefaultStages шесть стандартных этапов воронки
func DefaultStages() models.PipelineStages {
	return models.PipelineStages{
		{ID: models.CandidateApplied, Name: "Applied", Order: 1, Color: "#6B7280", Description: "New applications"},
		{ID: models.CandidateScreening, Name: "Screening", Order: 2, Color: "#3B82F6", Description: "Initial review"},
		{ID: models.CandidateInterview, Name: "Interview", Order: 3, Color: "#8B5CF6", Description: "Interview process"},
		{ID: models.CandidateOffer, Name: "Offer", Order: 4, Color: "#F59E0B", Description: "Offer extended"},
		{ID: models.CandidateHired, Name: "Hired", Order: 5, Color: "#10B981", Description: "Successfully hired"},
		{ID: models.CandidateRejected, Name: "Rejected", Order: 6, Color: "#EF4444", Description: "Not selected"},
	}
}

// ValidateStages проверяет список этапов перед сохранением воронки:
// идентификаторы из закрытого списка без повторов, order идет подряд без разрывов, цвет в hex.
func ValidateStages(stages models.PipelineStages) error {
	if len(stages) == 0 {
		return fmt.Errorf("%w: at least one stage is required", ErrInvalidStages)
	}

	seen := make(map[models.CandidateStatus]bool, len(stages))
	for i, stage := range stages {
		if err := validate.Struct(stage); err != nil {
			return fmt.Errorf("%w: stage %d: %v", ErrInvalidStages, i, err)
		}
		if !stage.ID.IsValid() {
			return fmt.Errorf("%w: unknown stage id %q", ErrInvalidStages, stage.ID)
		}
		if seen[stage.ID] {
			return fmt.Errorf("%w: duplicate stage id %q", ErrInvalidStages, stage.ID)
		}
		seen[stage.ID] = true

		// Advance ищет этап с order+1, поэтому разрывы запрещены
		if i > 0 && stage.Order != stages[i-1].Order+1 {
			return fmt.Errorf("%w: order of %q must be %d",
				ErrInvalidStages, stage.ID, stages[i-1].Order+1)
		}
	}

	return nil
}

// FindStage ищет этап по идентификатору
func FindStage(stages models.PipelineStages, id models.CandidateStatus) (models.PipelineStage, bool) {
	for _, stage := range stages {
		if stage.ID == id {
			return stage, true
		}
	}
	return models.PipelineStage{}, false
}

// NextStage этап с order на единицу больше текущего
func NextStage(stages models.PipelineStages, current models.PipelineStage) (models.PipelineStage, bool) {
	for _, stage := range stages {
		if stage.Order == current.Order+1 {
			return stage, true
		}
	}
	return models.PipelineStage{}, false
}

// Advance возвращает статус следующего этапа. Если текущий этап неизвестен,
// конечный или последний по order, возвращает текущий статус и false.
func Advance(candidate *models.Candidate, stages models.PipelineStages) (models.CandidateStatus, bool) {
	if candidate.Status.IsTerminal() {
		return candidate.Status, false
	}

	current, ok := FindStage(stages, candidate.Status)
	if !ok {
		return candidate.Status, false
	}

	next, ok := NextStage(stages, current)
	if !ok {
		return candidate.Status, false
	}

	return next.ID, true
}

// CanAdvance можно ли предлагать действие "следующий этап"
func CanAdvance(candidate *models.Candidate, stages models.PipelineStages) bool {
	_, ok := Advance(candidate, stages)
	return ok
}

// TransitionTo проверяет произвольный переход кандидата. Целевой этап должен быть
// в воронке; withdrawn допустим всегда как выход кандидата из процесса.
func TransitionTo(candidate *models.Candidate, target models.CandidateStatus, stages models.PipelineStages) (models.CandidateStatus, error) {
	if err := CheckTarget(target, stages); err != nil {
		return candidate.Status, err
	}
	return target, nil
}

// CheckTarget проверяет, что статус можно назначить в рамках воронки
func CheckTarget(target models.CandidateStatus, stages models.PipelineStages) error {
	if target == models.CandidateWithdrawn {
		return nil
	}
	if _, ok := FindStage(stages, target); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, target)
	}
	return nil
}

// Sorted копия этапов, упорядоченная по order
func Sorted(stages models.PipelineStages) models.PipelineStages {
	out := make(models.PipelineStages, len(stages))
	copy(out, stages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
