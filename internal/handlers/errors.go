package handlers

import (
	"errors"
	"log"

	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps service-layer errors to HTTP responses. Consistency
// violations and code exhaustion are server-side failures; everything else in
// the taxonomy is the caller's fault.
func serviceError(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": message, "error": err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": message, "error": err.Error(),
		})
	case errors.Is(err, services.ErrAlreadyOwner):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "You are already the owner of this pet",
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": message, "error": err.Error(),
		})
	default:
		// ErrCodeExhausted, ErrConsistency and unexpected store errors.
		log.Printf("Internal error: %s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": message,
		})
	}
}
