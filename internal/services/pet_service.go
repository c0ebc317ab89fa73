package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bhavika-28/pet-care-app/internal/models"
	"github.com/bhavika-28/pet-care-app/internal/repositories"
	"github.com/bhavika-28/pet-care-app/pkg/rabbitmq"
)

const defaultPetEmoji = "🐾"

// backfillDelay spaces out code assignments in the batch backfill so a large
// legacy table does not hammer the store in a tight loop.
const backfillDelay = 100 * time.Millisecond

// PetService handles pet profile lifecycle: creation with code assignment,
// lookup by sharing code and the legacy-code backfill.
type PetService struct {
	petRepo  repositories.PetRepository
	groupSvc *GroupService
	codes    *CodeGenerator
	mqClient *rabbitmq.Client // optional, may be nil
}

// NewPetService creates a new PetService. mqClient may be nil; event
// publication is then skipped.
func NewPetService(petRepo repositories.PetRepository, groupSvc *GroupService, codes *CodeGenerator, mqClient *rabbitmq.Client) *PetService {
	return &PetService{
		petRepo:  petRepo,
		groupSvc: groupSvc,
		codes:    codes,
		mqClient: mqClient,
	}
}

// CreateInput carries the pet profile fields accepted at creation.
type CreateInput struct {
	Name      string
	Type      string
	Breed     string
	Emoji     string
	Age       int
	BirthDate string
	Gender    string
	Weight    string
	Color     string
}

// Create registers a new pet for ownerID. The owner's sharing group is
// resolved (created lazily on first pet), a unique pet code is generated, and
// the row is inserted with both codes set; there is no intermediate state
// with a null code.
func (s *PetService) Create(ownerID string, in CreateInput) (*models.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	name := strings.TrimSpace(in.Name)
	petType := strings.TrimSpace(in.Type)
	breed := strings.TrimSpace(in.Breed)

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrValidation)
	}
	if name == "" || petType == "" || breed == "" {
		return nil, fmt.Errorf("%w: name, type and breed are required", ErrValidation)
	}

	groupCode, err := s.groupSvc.ResolveOrCreateForOwner(ownerID)
	if err != nil {
		return nil, err
	}

	petCode, err := s.codes.GenerateUnique(PetCodeLength, s.petRepo.CodeExists)
	if err != nil {
		return nil, err
	}

	emoji := in.Emoji
	if emoji == "" {
		emoji = defaultPetEmoji
	}

	pet := &models.Pet{
		Name:      name,
		Type:      petType,
		Breed:     breed,
		Emoji:     emoji,
		Age:       in.Age,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		Weight:    in.Weight,
		Color:     in.Color,
		GroupCode: groupCode,
		PetCode:   petCode,
		OwnerID:   ownerID,
	}
	if err := s.petRepo.Create(pet); err != nil {
		return nil, fmt.Errorf("failed to create pet in repository: %w", err)
	}

	s.publish("pet.created", map[string]interface{}{
		"petID":     pet.ID,
		"petCode":   pet.PetCode,
		"ownerID":   pet.OwnerID,
		"petName":   pet.Name,
		"petType":   pet.Type,
		"groupCode": groupCode,
	})

	return pet, nil
}

// GetByID retrieves a pet by its ID.
func (s *PetService) GetByID(id string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("pet %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return pet, nil
}

// GetByCode looks up a pet by its sharing code. Matching is case-insensitive:
// the input is uppercased before the exact comparison against the stored code.
func (s *PetService) GetByCode(code string) (*models.Pet, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	pet, err := s.petRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("pet code %s: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return pet, nil
}

// ListByOwner returns the pets owned by the given user.
func (s *PetService) ListByOwner(ownerID string) ([]models.Pet, error) {
	return s.petRepo.ListByOwner(ownerID)
}

// Update applies profile changes to a pet. Only the owner may update. Codes
// and ownership never change through this path.
func (s *PetService) Update(petID, requestingUserID string, in CreateInput) (*models.Pet, error) {
	pet, err := s.GetByID(petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != requestingUserID {
		return nil, fmt.Errorf("only the owner can update a pet: %w", ErrForbidden)
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		pet.Name = v
	}
	if v := strings.TrimSpace(in.Type); v != "" {
		pet.Type = v
	}
	if v := strings.TrimSpace(in.Breed); v != "" {
		pet.Breed = v
	}
	if in.Emoji != "" {
		pet.Emoji = in.Emoji
	}
	if in.Age != 0 {
		pet.Age = in.Age
	}
	if in.BirthDate != "" {
		pet.BirthDate = in.BirthDate
	}
	if in.Gender != "" {
		pet.Gender = in.Gender
	}
	if in.Weight != "" {
		pet.Weight = in.Weight
	}
	if in.Color != "" {
		pet.Color = in.Color
	}

	if err := s.petRepo.Update(pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// BackfillCode assigns a sharing code to a legacy pet that predates code
// assignment. Idempotent: a pet that already has a code keeps it.
func (s *PetService) BackfillCode(petID string) (string, error) {
	pet, err := s.GetByID(petID)
	if err != nil {
		return "", err
	}
	if pet.PetCode != "" {
		return pet.PetCode, nil
	}

	code, err := s.codes.GenerateUnique(PetCodeLength, s.petRepo.CodeExists)
	if err != nil {
		return "", err
	}
	if err := s.petRepo.UpdateCode(pet.ID, code); err != nil {
		return "", err
	}

	log.Printf("Backfilled pet code %s for pet %s", code, pet.ID)
	return code, nil
}

// BackfillAll assigns codes to every legacy pet missing one. Run once at
// startup; pets that fail code generation are logged and skipped so one bad
// row cannot stall the batch.
func (s *PetService) BackfillAll(ctx context.Context) error {
	pets, err := s.petRepo.ListWithoutCode()
	if err != nil {
		return fmt.Errorf("failed to list pets without code: %w", err)
	}
	if len(pets) == 0 {
		return nil
	}

	log.Printf("Backfilling codes for %d pets...", len(pets))
	for _, pet := range pets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backfillDelay):
		}
		if _, err := s.BackfillCode(pet.ID); err != nil {
			log.Printf("Failed to backfill code for pet %s: %v", pet.ID, err)
		}
	}
	log.Printf("Finished backfilling pet codes")
	return nil
}

func (s *PetService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
