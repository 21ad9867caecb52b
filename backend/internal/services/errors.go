package services

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"teamshub/backend/internal/pipeline"
)

// Ошибки "не найдено" возвращают только операции, которым нужна запись для изменения.
// Get-методы при отсутствии записи возвращают (nil, nil).
var (
	ErrJobPostingNotFound = errors.New("job posting not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrPipelineNotFound   = errors.New("pipeline not found")
	ErrInterviewNotFound  = errors.New("interview not found")
)

// ErrInvalidStatus статус вне закрытого списка этапов
var ErrInvalidStatus = errors.New("invalid candidate status")

var domainErrors = []error{
	ErrJobPostingNotFound,
	ErrCandidateNotFound,
	ErrPipelineNotFound,
	ErrInterviewNotFound,
	ErrInvalidStatus,
	pipeline.ErrUnknownStage,
	pipeline.ErrInvalidStages,
}

// isStorageFailure ошибка хранилища, а не отказ по правилам домена
func isStorageFailure(err error) bool {
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return false
		}
	}
	return true
}

// logStorageFailure пишет в лог только сбои хранилища
func logStorageFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if !isStorageFailure(err) {
		return
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
}

// Clock источник текущего времени
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
