package handlers

import (
	"errors"

	"bookstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindInvalidInput:     fiber.StatusBadRequest,
	services.KindInvalidDate:      fiber.StatusUnprocessableEntity,
	services.KindNotFound:         fiber.StatusNotFound,
	services.KindConflict:         fiber.StatusBadRequest,
	services.KindCacheUnavailable: fiber.StatusInternalServerError,
	services.KindStoreUnavailable: fiber.StatusInternalServerError,
}

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(kind services.ErrorKind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// errorResponse writes err as {"error": ...}. Server errors also carry the
// underlying cause under "details".
func errorResponse(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}

	status := StatusFor(svcErr.Kind)
	body := fiber.Map{"error": svcErr.Message}
	if status >= fiber.StatusInternalServerError && svcErr.Err != nil {
		body["details"] = svcErr.Err.Error()
	}
	return c.Status(status).JSON(body)
}
