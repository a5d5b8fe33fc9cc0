package utils

import (
	"net/http"
	"time"

	"assistance-service/internal/apperrors"
)

type SuccessResponse struct {
	Success bool  `json:"success"`
	Data    any   `json:"data"`
	Meta    *Meta `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

func CreateSuccessResponse(data any) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Timestamp: time.Now(),
		},
	}
}

func CreateErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: APIError{
			Code:    code,
			Message: message,
		},
	}
}

// StatusForKind maps workflow error kinds to HTTP status codes so every
// handler reports typed failures the same way.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthorized:
		return http.StatusForbidden
	case apperrors.KindConcurrentModification:
		return http.StatusConflict
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindInternal:
		return http.StatusInternalServerError
	default:
		// Workflow rule violations (inactive product, out-of-order gate,
		// invalid transition...) are client errors.
		return http.StatusUnprocessableEntity
	}
}

// CreateErrorResponseFromErr builds the envelope straight from a workflow
// error, using its kind as the API code.
func CreateErrorResponseFromErr(err error) (int, ErrorResponse) {
	kind := apperrors.KindOf(err)
	return StatusForKind(kind), CreateErrorResponse(string(kind), err.Error())
}
