package handlers

import (
	"log"

	"github.com/bhavika-28/pet-care-app/internal/middleware"
	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PetHandler handles HTTP requests for pet profiles and sharing codes.
type PetHandler struct {
	petService    *services.PetService
	accessService *services.AccessService
	validate      *validator.Validate
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(petService *services.PetService, accessService *services.AccessService) *PetHandler {
	return &PetHandler{
		petService:    petService,
		accessService: accessService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the pet routes with the Fiber app. All routes
// require an authenticated user.
func (h *PetHandler) RegisterRoutes(router fiber.Router) {
	petRoutes := router.Group("/pets")
	petRoutes.Post("/", h.HandleCreatePet)
	petRoutes.Get("/", h.HandleListOwnPets)
	petRoutes.Get("/caretaker", h.HandleListCaretakerPets)
	petRoutes.Get("/code/:code", h.HandleGetPetByCode)
	petRoutes.Get("/:petID", h.HandleGetPet)
	petRoutes.Patch("/:petID", h.HandleUpdatePet)
	petRoutes.Delete("/:petID", h.HandleDeletePet)
	petRoutes.Get("/:petID/code", h.HandleGetPetCode)
}

// PetRequest represents the request body for pet creation and updates.
type PetRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Type      string `json:"type" validate:"required"`
	Breed     string `json:"breed" validate:"required"`
	Emoji     string `json:"emoji"`
	Age       int    `json:"age" validate:"gte=0"`
	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
	Weight    string `json:"weight"`
	Color     string `json:"color"`
}

func (r PetRequest) toInput() services.CreateInput {
	return services.CreateInput{
		Name:      r.Name,
		Type:      r.Type,
		Breed:     r.Breed,
		Emoji:     r.Emoji,
		Age:       r.Age,
		BirthDate: r.BirthDate,
		Gender:    r.Gender,
		Weight:    r.Weight,
		Color:     r.Color,
	}
}

// HandleCreatePet registers a new pet owned by the authenticated user.
func (h *PetHandler) HandleCreatePet(c *fiber.Ctx) error {
	var req PetRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create pet request body: %v", err)
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

	pet, err := h.petService.Create(middleware.UserID(c), req.toInput())
	if err != nil {
		return serviceError(c, "Could not create pet", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Pet created successfully",
		"pet":     pet,
	})
}

// HandleListOwnPets returns the pets owned by the authenticated user.
func (h *PetHandler) HandleListOwnPets(c *fiber.Ctx) error {
	pets, err := h.petService.ListByOwner(middleware.UserID(c))
	if err != nil {
		return serviceError(c, "Could not list pets", err)
	}
	return c.JSON(fiber.Map{"success": true, "pets": pets})
}

// HandleListCaretakerPets returns the pets shared with the authenticated user
// by other owners.
func (h *PetHandler) HandleListCaretakerPets(c *fiber.Ctx) error {
	pets, err := h.accessService.ListCaretakerPets(middleware.UserID(c))
	if err != nil {
		return serviceError(c, "Could not list caretaker pets", err)
	}
	return c.JSON(fiber.Map{"success": true, "pets": pets})
}

// HandleGetPet returns a single pet the authenticated user may view.
func (h *PetHandler) HandleGetPet(c *fiber.Ctx) error {
	pet, err := h.petService.GetByID(c.Params("petID"))
	if err != nil {
		return serviceError(c, "Could not load pet", err)
	}

	ok, err := h.accessService.CanView(middleware.UserID(c), pet)
	if err != nil {
		return serviceError(c, "Could not load pet", err)
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You do not have access to this pet",
		})
	}

	return c.JSON(fiber.Map{"success": true, "pet": pet})
}

// HandleGetPetByCode looks up a pet by its sharing code. Lookup is open to
// any authenticated user; holding the code is the credential.
func (h *PetHandler) HandleGetPetByCode(c *fiber.Ctx) error {
	pet, err := h.petService.GetByCode(c.Params("code"))
	if err != nil {
		return serviceError(c, "Could not find pet", err)
	}
	return c.JSON(fiber.Map{"success": true, "pet": pet})
}

// HandleUpdatePet applies a partial update to a pet owned by the
// authenticated user.
func (h *PetHandler) HandleUpdatePet(c *fiber.Ctx) error {
	var req PetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	pet, err := h.petService.Update(c.Params("petID"), middleware.UserID(c), req.toInput())
	if err != nil {
		return serviceError(c, "Could not update pet", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Pet updated successfully",
		"pet":     pet,
	})
}

// HandleDeletePet removes a pet owned by the authenticated user. Deleting the
// owner's last pet also clears the caregiver roster for their group.
func (h *PetHandler) HandleDeletePet(c *fiber.Ctx) error {
	if err := h.accessService.DeletePet(c.Params("petID"), middleware.UserID(c)); err != nil {
		return serviceError(c, "Could not delete pet", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Pet deleted successfully",
	})
}

// HandleGetPetCode returns the pet's sharing code, assigning one on the fly
// to legacy rows created before codes existed.
func (h *PetHandler) HandleGetPetCode(c *fiber.Ctx) error {
	pet, err := h.petService.GetByID(c.Params("petID"))
	if err != nil {
		return serviceError(c, "Could not load pet", err)
	}

	ok, err := h.accessService.CanView(middleware.UserID(c), pet)
	if err != nil {
		return serviceError(c, "Could not load pet", err)
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You do not have access to this pet",
		})
	}

	code, err := h.petService.BackfillCode(pet.ID)
	if err != nil {
		return serviceError(c, "Could not load pet code", err)
	}

	return c.JSON(fiber.Map{"success": true, "pet_code": code})
}
