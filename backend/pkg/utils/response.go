package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JSONResponse стандартный JSON ответ
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WriteJSON записывает JSON ответ
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteSuccess успешный ответ
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	response := JSONResponse{
		Success: true,
		Data:    data,
	}
	WriteJSON(w, http.StatusOK, response)
}

// WriteCreated ответ 201 с созданным объектом
func WriteCreated(w http.ResponseWriter, data interface{}) {
	response := JSONResponse{
		Success: true,
		Data:    data,
	}
	WriteJSON(w, http.StatusCreated, response)
}

// WriteError ответ с ошибкой
func WriteError(w http.ResponseWriter, status int, message string) {
	response := JSONResponse{
		Success: false,
		Error:   message,
	}
	WriteJSON(w, status, response)
}

// WriteMessage ответ с сообщением
func WriteMessage(w http.ResponseWriter, message string) {
	response := JSONResponse{
		Success: true,
		Message: message,
	}
	WriteJSON(w, http.StatusOK, response)
}

// WriteValidationError ошибка валидации
func WriteValidationError(w http.ResponseWriter, errors map[string]string) {
	response := map[string]interface{}{
		"success": false,
		"error":   "Validation failed",
		"errors":  errors,
	}
	WriteJSON(w, http.StatusBadRequest, response)
}

// ValidationErrors раскладывает ошибку validator по полям
func ValidationErrors(err error) map[string]string {
	result := map[string]string{}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		result["_"] = err.Error()
		return result
	}

	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			result[field] = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		} else {
			result[field] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
	}
	return result
}

// WriteNotFound 404 ошибка
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, resource+" not found")
}

// WriteUnauthorized 401 ошибка
func WriteUnauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized")
}

// WriteInternalError 500 ошибка. Детали только в логе.
func WriteInternalError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("Internal server error", zap.Error(err))
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// HealthCheckResponse ответ для health check
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// WriteHealthCheck записывает health check ответ
func WriteHealthCheck(w http.ResponseWriter, status string, services map[string]string) {
	response := HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, response)
}

// BindJSON парсит JSON из тела запроса
func BindJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}

	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// GetQueryParam получает параметр из query string
func GetQueryParam(r *http.Request, key string, defaultValue string) string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetQueryInt получает int параметр из query string
func GetQueryInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// GetQueryUUID получает uuid параметр из query string, uuid.Nil если его нет
func GetQueryUUID(r *http.Request, key string) (uuid.UUID, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(value)
}
