package handlers

import (
	"log"

	"github.com/bhavika-28/pet-care-app/internal/middleware"
	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CaregiverHandler handles HTTP requests for granting and revoking shared
// access to pets.
type CaregiverHandler struct {
	accessService *services.AccessService
	validate      *validator.Validate
}

// NewCaregiverHandler creates a new CaregiverHandler.
func NewCaregiverHandler(accessService *services.AccessService) *CaregiverHandler {
	return &CaregiverHandler{
		accessService: accessService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the caregiver routes with the Fiber app. All
// routes require an authenticated user.
func (h *CaregiverHandler) RegisterRoutes(router fiber.Router) {
	caregiverRoutes := router.Group("/caregivers")
	caregiverRoutes.Post("/", h.HandleRedeemCode)
	caregiverRoutes.Delete("/", h.HandleRemoveCaregiver)
}

// RedeemCodeRequest represents the request body for joining a pet's care
// circle by sharing code.
type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required,len=7"`
}

// HandleRedeemCode adds the authenticated user as a caregiver of the pet
// identified by the submitted sharing code.
func (h *CaregiverHandler) HandleRedeemCode(c *fiber.Ctx) error {
	var req RedeemCodeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing redeem code request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	pet, err := h.accessService.RedeemCode(middleware.UserID(c), req.Code)
	if err != nil {
		return serviceError(c, "Could not redeem code", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "You now have access to this pet",
		"pet":     pet,
	})
}

// RemoveCaregiverRequest represents the request body for revoking a
// caregiver's access to a pet.
type RemoveCaregiverRequest struct {
	UserID string `json:"user_id" validate:"required"`
	PetID  string `json:"pet_id" validate:"required"`
}

// HandleRemoveCaregiver revokes a caregiver's access. A caregiver may remove
// themselves; only the pet's owner may remove anyone else.
func (h *CaregiverHandler) HandleRemoveCaregiver(c *fiber.Ctx) error {
	var req RemoveCaregiverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	removed, err := h.accessService.RemoveCaregiver(middleware.UserID(c), req.UserID, req.PetID)
	if err != nil {
		return serviceError(c, "Could not remove caregiver", err)
	}

	message := "Caregiver removed successfully"
	if !removed {
		message = "Caregiver was not a member"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
		"message": message,
	})
}
