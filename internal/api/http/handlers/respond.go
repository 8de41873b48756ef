package handlers

import "github.com/gofiber/fiber/v2"

// envelope is the uniform success response shape:
// {success, data?, message?, token?}. Failures are shaped by the error
// middleware using the same envelope with success=false.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
}

func respond(c *fiber.Ctx, status int, data interface{}, message, token string) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Data:    data,
		Message: message,
		Token:   token,
	})
}
