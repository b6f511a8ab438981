package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	httpError "booking-service/src/pkg/http-error"
)

// HTTPResponse is the uniform envelope every endpoint returns.
type HTTPResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Response writes a success envelope.
func Response(data interface{}, message string, status int, ctx *fiber.Ctx) error {
	return ctx.Status(status).JSON(HTTPResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError maps a usecase error onto the envelope. Typed CommonError
// values keep their status and machine code; anything else is a 500.
func ResponseError(err error, ctx *fiber.Ctx) error {
	var commonErr *httpError.CommonError
	if errors.As(err, &commonErr) {
		return ctx.Status(commonErr.Code).JSON(HTTPResponse{
			Success: false,
			Message: commonErr.Message,
			Code:    commonErr.ErrorCode,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(HTTPResponse{
		Success: false,
		Message: err.Error(),
		Code:    "INTERNAL_ERROR",
	})
}
