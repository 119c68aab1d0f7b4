package rest

import (
	"github.com/gofiber/fiber/v2"
)

type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

func respond(c *fiber.Ctx, status int, code, message string, results any) error {
	return c.Status(status).JSON(ResponseData{
		Status:  status,
		Code:    code,
		Message: message,
		Results: results,
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return respond(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}

func notFound(c *fiber.Ctx, message string) error {
	return respond(c, fiber.StatusNotFound, "NOT_FOUND", message, nil)
}
