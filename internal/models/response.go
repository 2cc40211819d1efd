package models

import "github.com/gofiber/fiber/v2"

// Envelope is the uniform response wrapper for every endpoint. StatusCode
// mirrors the HTTP status and Success is derived from it.
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// Respond writes a success envelope with the given status, payload and message.
// A nil data is serialized as an empty object so callers always get a "data" field.
func Respond(c *fiber.Ctx, status int, data interface{}, message string) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// RespondWithError writes an error envelope. The message comes from the
// AppError when the error is one, otherwise from err.Error().
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	message := err.Error()
	if appErr, ok := err.(*AppError); ok {
		message = appErr.Message
	}
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Data:       fiber.Map{},
		Message:    message,
		Success:    false,
	})
}
