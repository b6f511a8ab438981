package httperror

import "net/http"

// CommonError is the error contract between usecases and the HTTP layer.
// Code is the HTTP status, ErrorCode is the stable machine-readable code
// clients and tests branch on, Message is the human explanation (guard
// failures embed computed values such as distance or minutes remaining).
type CommonError struct {
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

// WithCode overrides the machine-readable code and returns the error for
// inline construction.
func (e *CommonError) WithCode(errorCode string) *CommonError {
	e.ErrorCode = errorCode
	return e
}

func NewBadRequest() *CommonError {
	return &CommonError{
		Code:      http.StatusBadRequest,
		ErrorCode: "VALIDATION_ERROR",
		Message:   "bad request",
	}
}

func NewUnauthorized() *CommonError {
	return &CommonError{
		Code:      http.StatusUnauthorized,
		ErrorCode: "UNAUTHORIZED",
		Message:   "unauthorized",
	}
}

func NewForbidden() *CommonError {
	return &CommonError{
		Code:      http.StatusForbidden,
		ErrorCode: "FORBIDDEN",
		Message:   "forbidden",
	}
}

func NewNotFound() *CommonError {
	return &CommonError{
		Code:      http.StatusNotFound,
		ErrorCode: "NOT_FOUND",
		Message:   "not found",
	}
}

func NewConflict() *CommonError {
	return &CommonError{
		Code:      http.StatusConflict,
		ErrorCode: "INVALID_STATE",
		Message:   "operation conflicts with current state",
	}
}

func NewUnprocessableEntity() *CommonError {
	return &CommonError{
		Code:      http.StatusUnprocessableEntity,
		ErrorCode: "UNPROCESSABLE",
		Message:   "unprocessable entity",
	}
}

func NewInternalServerError() *CommonError {
	return &CommonError{
		Code:      http.StatusInternalServerError,
		ErrorCode: "INTERNAL_ERROR",
		Message:   "internal server error",
	}
}
