package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bhavika-28/pet-care-app/internal/models"
	"github.com/bhavika-28/pet-care-app/internal/repositories"
	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/stretchr/testify/assert"
)

func newPetService() (*services.PetService, *repositories.MockPetRepository, *repositories.MockGroupRepository) {
	petRepo := repositories.NewMockPetRepository()
	groupRepo := repositories.NewMockGroupRepository()
	membershipRepo := repositories.NewMockMembershipRepository()
	codes := services.NewCodeGenerator()
	groupSvc := services.NewGroupService(groupRepo, membershipRepo, codes)
	return services.NewPetService(petRepo, groupSvc, codes, nil), petRepo, groupRepo
}

func TestPetService_Create(t *testing.T) {
	svc, _, groupRepo := newPetService()

	pet, err := svc.Create("owner-1", services.CreateInput{
		Name:  "Luna",
		Type:  "cat",
		Breed: "Siamese",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, pet.ID)
	assert.Len(t, pet.PetCode, services.PetCodeLength)
	assert.Equal(t, "🐾", pet.Emoji) // default when none given
	assert.Equal(t, "owner-1", pet.OwnerID)

	// The owner's group was created lazily and the pet carries its code
	group, err := groupRepo.GetByOwner("owner-1")
	assert.NoError(t, err)
	assert.Equal(t, group.GroupCode, pet.GroupCode)
}

func TestPetService_Create_SharedGroupAcrossPets(t *testing.T) {
	svc, _, _ := newPetService()

	first, err := svc.Create("owner-1", services.CreateInput{Name: "Luna", Type: "cat", Breed: "Siamese"})
	assert.NoError(t, err)
	second, err := svc.Create("owner-1", services.CreateInput{Name: "Rex", Type: "dog", Breed: "Beagle"})
	assert.NoError(t, err)

	assert.Equal(t, first.GroupCode, second.GroupCode)
	assert.NotEqual(t, first.PetCode, second.PetCode)
}

func TestPetService_Create_Validation(t *testing.T) {
	svc, _, _ := newPetService()

	_, err := svc.Create("", services.CreateInput{Name: "Luna", Type: "cat", Breed: "Siamese"})
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = svc.Create("owner-1", services.CreateInput{Name: "  ", Type: "cat", Breed: "Siamese"})
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = svc.Create("owner-1", services.CreateInput{Name: "Luna", Type: "", Breed: "Siamese"})
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestPetService_Create_KeepsCustomEmoji(t *testing.T) {
	svc, _, _ := newPetService()

	pet, err := svc.Create("owner-1", services.CreateInput{
		Name:  "Luna",
		Type:  "cat",
		Breed: "Siamese",
		Emoji: "🐱",
	})
	assert.NoError(t, err)
	assert.Equal(t, "🐱", pet.Emoji)
}

func TestPetService_GetByCode_CaseInsensitive(t *testing.T) {
	svc, _, _ := newPetService()

	pet, err := svc.Create("owner-1", services.CreateInput{Name: "Luna", Type: "cat", Breed: "Siamese"})
	assert.NoError(t, err)

	found, err := svc.GetByCode("  " + pet.PetCode + " ")
	assert.NoError(t, err)
	assert.Equal(t, pet.ID, found.ID)

	// Lowercase input matches the stored uppercase code
	found, err = svc.GetByCode(strings.ToLower(pet.PetCode))
	assert.NoError(t, err)
	assert.Equal(t, pet.ID, found.ID)
}

func TestPetService_GetByCode_Unknown(t *testing.T) {
	svc, _, _ := newPetService()

	_, err := svc.GetByCode("ZZZZZZZ")
	assert.True(t, errors.Is(err, services.ErrNotFound))

	_, err = svc.GetByCode("   ")
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestPetService_Update_OwnerOnly(t *testing.T) {
	svc, _, _ := newPetService()

	pet, err := svc.Create("owner-1", services.CreateInput{Name: "Luna", Type: "cat", Breed: "Siamese"})
	assert.NoError(t, err)

	_, err = svc.Update(pet.ID, "intruder", services.CreateInput{Name: "Stolen"})
	assert.True(t, errors.Is(err, services.ErrForbidden))

	updated, err := svc.Update(pet.ID, "owner-1", services.CreateInput{Name: "Luna II", Weight: "4kg"})
	assert.NoError(t, err)
	assert.Equal(t, "Luna II", updated.Name)
	assert.Equal(t, "4kg", updated.Weight)
	// Untouched fields survive a partial update
	assert.Equal(t, "Siamese", updated.Breed)
	// Codes are immutable through updates
	assert.Equal(t, pet.PetCode, updated.PetCode)
	assert.Equal(t, pet.GroupCode, updated.GroupCode)
}

func TestPetService_BackfillCode(t *testing.T) {
	svc, petRepo, _ := newPetService()

	// A legacy row created before codes existed
	legacy := &models.Pet{ID: "legacy-1", Name: "Old Dog", Type: "dog", Breed: "Mutt", OwnerID: "owner-1", GroupCode: "ABC123"}
	assert.NoError(t, petRepo.Create(legacy))

	code, err := svc.BackfillCode("legacy-1")
	assert.NoError(t, err)
	assert.Len(t, code, services.PetCodeLength)

	// Idempotent: a second call returns the same code
	again, err := svc.BackfillCode("legacy-1")
	assert.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestPetService_BackfillAll(t *testing.T) {
	svc, petRepo, _ := newPetService()

	for _, id := range []string{"legacy-1", "legacy-2"} {
		assert.NoError(t, petRepo.Create(&models.Pet{ID: id, Name: id, Type: "dog", Breed: "Mutt", OwnerID: "owner-1"}))
	}

	err := svc.BackfillAll(context.Background())
	assert.NoError(t, err)

	remaining, err := petRepo.ListWithoutCode()
	assert.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPetService_BackfillAll_Cancelled(t *testing.T) {
	svc, petRepo, _ := newPetService()

	assert.NoError(t, petRepo.Create(&models.Pet{ID: "legacy-1", Name: "Old Dog", Type: "dog", Breed: "Mutt", OwnerID: "owner-1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.BackfillAll(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
