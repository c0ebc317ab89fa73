package handlers

import (
	"github.com/bhavika-28/pet-care-app/internal/middleware"
	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MembersHandler handles HTTP requests for care-circle rosters and the
// owner's group code.
type MembersHandler struct {
	accessService *services.AccessService
	groupService  *services.GroupService
	petService    *services.PetService
}

// NewMembersHandler creates a new MembersHandler.
func NewMembersHandler(accessService *services.AccessService, groupService *services.GroupService, petService *services.PetService) *MembersHandler {
	return &MembersHandler{
		accessService: accessService,
		groupService:  groupService,
		petService:    petService,
	}
}

// RegisterRoutes registers the member routes with the Fiber app. All routes
// require an authenticated user.
func (h *MembersHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/pets/:petID/members", h.HandleListMembers)
	router.Get("/members/connected", h.HandleConnectedMembers)
	router.Get("/groups/code", h.HandleGetGroupCode)
}

// HandleListMembers returns the roster of a pet's care circle, owner first.
func (h *MembersHandler) HandleListMembers(c *fiber.Ctx) error {
	pet, err := h.petService.GetByID(c.Params("petID"))
	if err != nil {
		return serviceError(c, "Could not load pet", err)
	}

	ok, err := h.accessService.CanView(middleware.UserID(c), pet)
	if err != nil {
		return serviceError(c, "Could not load members", err)
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You do not have access to this pet",
		})
	}

	members, err := h.accessService.ListMembers(pet.ID)
	if err != nil {
		return serviceError(c, "Could not load members", err)
	}
	return c.JSON(fiber.Map{"success": true, "members": members})
}

// HandleConnectedMembers returns every user connected to the authenticated
// user through shared pet access, in either direction.
func (h *MembersHandler) HandleConnectedMembers(c *fiber.Ctx) error {
	members, err := h.accessService.ConnectedUsers(middleware.UserID(c))
	if err != nil {
		return serviceError(c, "Could not load connected members", err)
	}
	return c.JSON(fiber.Map{"success": true, "members": members})
}

// HandleGetGroupCode returns the sharing group code associated with the
// authenticated user, whether they own the group or joined it.
func (h *MembersHandler) HandleGetGroupCode(c *fiber.Ctx) error {
	code, err := h.groupService.GroupCodeForUser(middleware.UserID(c))
	if err != nil {
		return serviceError(c, "Could not load group code", err)
	}
	return c.JSON(fiber.Map{"success": true, "group_code": code})
}
