package serverutils

import (
	"errors"

	"github.com/likhit-sai/CogniFlow/pkg/ai/assist"
	"github.com/likhit-sai/CogniFlow/pkg/reorg"
	"github.com/likhit-sai/CogniFlow/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	var ve *ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case store.IsNotFound(err):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrCycle):
		return fiber.StatusConflict
	case errors.Is(err, store.ErrNotLoaded):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, store.ErrInvalidKind),
		errors.Is(err, assist.ErrEmptyText),
		errors.Is(err, reorg.ErrDuplicateTempID),
		errors.Is(err, reorg.ErrMissingTempID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
// Internal errors are hidden behind a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ctx.Status(code).JSON(ValidationErrorResponse("Invalid request", ve.Fields))
		}

		message := err.Error()
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
