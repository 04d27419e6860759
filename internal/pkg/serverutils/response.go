package serverutils

import "github.com/gofiber/fiber/v2"

// Response is the envelope of every JSON body the API returns.
type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{Success: true, Code: fiber.StatusOK, Message: message, Data: data}
}

func ErrorResponse(code int, message string) Response[any] {
	return Response[any]{Success: false, Code: code, Message: message}
}

func ValidationErrorResponse(message string, fields map[string]string) Response[map[string]string] {
	return Response[map[string]string]{Success: false, Code: fiber.StatusBadRequest, Message: message, Data: fields}
}
