package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/pipeline"
	"teamshub/backend/internal/services"
	"teamshub/backend/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateJobPostingRequest, CreateJobPostingRequest{})
	return v
}

// decodeRequest читает JSON тело и проверяет его теги validate.
// При ошибке ответ уже записан.
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := utils.BindJSON(r, req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(req); err != nil {
		utils.WriteValidationError(w, utils.ValidationErrors(err))
		return false
	}

	return true
}

// pathID разбирает {id} из пути
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError переводит ошибку сервиса в HTTP ответ
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrJobPostingNotFound):
		utils.WriteNotFound(w, "Job posting")
	case errors.Is(err, services.ErrCandidateNotFound):
		utils.WriteNotFound(w, "Candidate")
	case errors.Is(err, services.ErrPipelineNotFound):
		utils.WriteNotFound(w, "Pipeline")
	case errors.Is(err, services.ErrInterviewNotFound):
		utils.WriteNotFound(w, "Interview")
	case errors.Is(err, pipeline.ErrUnknownStage),
		errors.Is(err, pipeline.ErrInvalidStages),
		errors.Is(err, services.ErrInvalidStatus):
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.WriteInternalError(w, logger, err)
	}
}
