package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bhavika-28/pet-care-app/internal/models"
	"github.com/bhavika-28/pet-care-app/internal/repositories"
	"github.com/bhavika-28/pet-care-app/pkg/rabbitmq"
)

// AccessService is the authorization core. A (user, pet) pair is in one of
// three states: owner, caregiver or unrelated. Redeeming a pet's code moves an
// unrelated user to caregiver; a self- or owner-revocation moves a caregiver
// back to unrelated. Ownership is permanent for the pet's lifetime.
type AccessService struct {
	petRepo        repositories.PetRepository
	groupRepo      repositories.GroupRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	mqClient       *rabbitmq.Client // optional, may be nil
}

// NewAccessService creates a new AccessService. mqClient may be nil; event
// publication is then skipped.
func NewAccessService(
	petRepo repositories.PetRepository,
	groupRepo repositories.GroupRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
) *AccessService {
	return &AccessService{
		petRepo:        petRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		mqClient:       mqClient,
	}
}

// Member is an entry in a pet's member listing.
type Member struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// PetSummary identifies a pet in a connection listing.
type PetSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// ConnectedMember is a user reachable through shared pets, annotated with the
// pets connecting them to the requesting user.
type ConnectedMember struct {
	UserID   string       `json:"user_id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Pets     []PetSummary `json:"pets"`
}

// RedeemCode turns the calling user into a caregiver of the pet whose code was
// entered. Fails with ErrNotFound for an unknown code and ErrAlreadyOwner when
// the user redeems their own pet's code. Re-redeeming an already-held code
// succeeds without creating a duplicate membership row.
func (s *AccessService) RedeemCode(userID, code string) (*models.Pet, error) {
	userID = strings.TrimSpace(userID)
	code = strings.ToUpper(strings.TrimSpace(code))
	if userID == "" || code == "" {
		return nil, fmt.Errorf("%w: user id and code are required", ErrValidation)
	}

	pet, err := s.petRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("pet code %s: %w", code, ErrNotFound)
		}
		return nil, err
	}

	if pet.OwnerID == userID {
		return nil, fmt.Errorf("cannot redeem the code of your own pet: %w", ErrAlreadyOwner)
	}

	group, err := s.groupForPet(pet)
	if err != nil {
		return nil, err
	}

	// Idempotent: an existing membership is success, not a duplicate insert.
	if _, err := s.membershipRepo.Find(group.ID, userID); err == nil {
		return pet, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	member := &models.GroupMember{
		GroupID: group.ID,
		UserID:  userID,
		Role:    models.RoleCaregiver,
	}
	if err := s.membershipRepo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to add caregiver: %w", err)
	}

	s.publish("caregiver.added", map[string]interface{}{
		"petID":   pet.ID,
		"userID":  userID,
		"groupID": group.ID,
	})

	return pet, nil
}

// RemoveCaregiver removes targetUserID's caregiver access to petID.
// Self-revocation is always permitted; revoking someone else requires the
// requester to be the pet's owner. Removing an absent membership is success
// with removed=false, tolerating relations that only ever existed client-side.
func (s *AccessService) RemoveCaregiver(requestingUserID, targetUserID, petID string) (bool, error) {
	requestingUserID = strings.TrimSpace(requestingUserID)
	targetUserID = strings.TrimSpace(targetUserID)
	if requestingUserID == "" || targetUserID == "" || petID == "" {
		return false, fmt.Errorf("%w: requesting user, target user and pet id are required", ErrValidation)
	}

	pet, err := s.petRepo.GetByID(petID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return false, err
	}

	if requestingUserID != targetUserID && requestingUserID != pet.OwnerID {
		return false, fmt.Errorf("only the owner can remove other caregivers: %w", ErrForbidden)
	}

	group, err := s.groupForPet(pet)
	if err != nil {
		return false, err
	}

	removed, err := s.membershipRepo.Delete(group.ID, targetUserID)
	if err != nil {
		return false, err
	}
	if removed {
		s.publish("caregiver.removed", map[string]interface{}{
			"petID":   pet.ID,
			"userID":  targetUserID,
			"groupID": group.ID,
		})
	}
	return removed, nil
}

// ListMembers returns the users with access to a pet: the owner first
// (synthesized, never a stored row), then the caregiver rows of its group.
func (s *AccessService) ListMembers(petID string) ([]Member, error) {
	pet, err := s.petRepo.GetByID(petID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return nil, err
	}

	members := make([]Member, 0)

	// A deleted owner account is skipped; any other store failure propagates.
	owner, err := s.userRepo.GetByID(pet.OwnerID)
	if err == nil {
		members = append(members, Member{
			UserID:   owner.ID,
			Username: owner.Username,
			Email:    owner.Email,
			Role:     models.RoleOwner,
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	group, err := s.groupForPet(pet)
	if err != nil {
		return nil, err
	}

	rows, err := s.membershipRepo.ListByGroup(group.ID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		// The owner is derived state; never list a stray row twice.
		if row.UserID == pet.OwnerID {
			continue
		}
		role := row.Role
		if role == "" {
			role = models.RoleCaregiver
		}
		members = append(members, Member{
			UserID:   row.UserID,
			Username: row.User.Username,
			Email:    row.User.Email,
			Role:     role,
		})
	}

	return members, nil
}

// ConnectedUsers is the bidirectional discovery read: owners of pets the user
// caretakes, plus caregivers of the user's own pets, deduplicated by user id
// and annotated with the pets connecting them. Pure read, no side effects.
func (s *AccessService) ConnectedUsers(userID string) ([]ConnectedMember, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	out := make([]ConnectedMember, 0)
	index := make(map[string]int) // user id -> position in out
	seenPet := make(map[string]map[string]struct{})

	add := func(user *models.User, pet models.Pet) {
		pos, ok := index[user.ID]
		if !ok {
			username := user.Username
			if username == "" {
				username = user.Email
			}
			out = append(out, ConnectedMember{
				UserID:   user.ID,
				Username: username,
				Email:    user.Email,
				Pets:     []PetSummary{},
			})
			pos = len(out) - 1
			index[user.ID] = pos
			seenPet[user.ID] = make(map[string]struct{})
		}
		if _, dup := seenPet[user.ID][pet.ID]; dup {
			return
		}
		seenPet[user.ID][pet.ID] = struct{}{}
		out[pos].Pets = append(out[pos].Pets, PetSummary{ID: pet.ID, Name: pet.Name, Emoji: pet.Emoji})
	}

	// Side one: pets the user caretakes -> their owners.
	caretakerPets, err := s.ListCaretakerPets(userID)
	if err != nil {
		return nil, err
	}
	for _, pet := range caretakerPets {
		owner, err := s.userRepo.GetByID(pet.OwnerID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		add(owner, pet)
	}

	// Side two: pets the user owns -> their caregivers.
	ownedPets, err := s.petRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	for _, pet := range ownedPets {
		group, err := s.groupForPet(&pet)
		if err != nil {
			return nil, err
		}
		rows, err := s.membershipRepo.ListByGroup(group.ID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.UserID == userID {
				continue
			}
			user := row.User
			if user.ID == "" {
				fetched, err := s.userRepo.GetByID(row.UserID)
				if err != nil {
					if errors.Is(err, repositories.ErrNotFound) {
						continue
					}
					return nil, err
				}
				user = *fetched
			}
			add(&user, pet)
		}
	}

	return out, nil
}

// ListCaretakerPets returns pets the user can reach through group membership,
// excluding pets the user owns. The owner filter is defensive: an owner cannot
// be a caregiver of their own pet by construction, but the query guards it
// regardless.
func (s *AccessService) ListCaretakerPets(userID string) ([]models.Pet, error) {
	groupIDs, err := s.membershipRepo.ListGroupIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []models.Pet{}, nil
	}
	groups, err := s.groupRepo.GetByIDs(groupIDs)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(groups))
	for _, g := range groups {
		codes = append(codes, g.GroupCode)
	}
	return s.petRepo.ListByGroupCodes(codes, userID)
}

// ListAccessiblePets returns the union of pets the user owns and pets
// reachable through group membership.
func (s *AccessService) ListAccessiblePets(userID string) ([]models.Pet, error) {
	owned, err := s.petRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.ListCaretakerPets(userID)
	if err != nil {
		return nil, err
	}
	return append(owned, shared...), nil
}

// CanView reports whether userID may read the pet: its owner, or a member of
// its group.
func (s *AccessService) CanView(userID string, pet *models.Pet) (bool, error) {
	if pet.OwnerID == userID {
		return true, nil
	}
	group, err := s.groupForPet(pet)
	if err != nil {
		return false, err
	}
	if _, err := s.membershipRepo.Find(group.ID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeletePet removes a pet. Owner only. If it was the owner's last pet, the
// group's caregiver memberships are purged as well: they would reference
// nothing reachable anymore. The group row itself survives so the owner keeps
// the same group code for future pets.
func (s *AccessService) DeletePet(petID, requestingUserID string) error {
	pet, err := s.petRepo.GetByID(petID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return err
	}
	if pet.OwnerID != requestingUserID {
		return fmt.Errorf("only the owner can delete a pet: %w", ErrForbidden)
	}

	if err := s.petRepo.Delete(petID); err != nil {
		return err
	}

	remaining, err := s.petRepo.ListByOwner(requestingUserID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		group, err := s.groupForPet(pet)
		if err != nil {
			return nil // pet is gone; a missing group is already logged
		}
		n, err := s.membershipRepo.DeleteByGroup(group.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("Purged %d memberships of group %s after last pet was deleted", n, group.ID)
		}
	}
	return nil
}

// groupForPet resolves a pet's sharing group. Every pet has a group by
// construction, so a miss here means the data is corrupt: it is logged loudly
// and surfaced as ErrConsistency, never masked.
func (s *AccessService) groupForPet(pet *models.Pet) (*models.Group, error) {
	if pet.GroupCode == "" {
		log.Printf("ERROR: pet %s has no group code; data is corrupt", pet.ID)
		return nil, fmt.Errorf("pet %s has no group: %w", pet.ID, ErrConsistency)
	}
	group, err := s.groupRepo.GetByCode(pet.GroupCode)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("ERROR: group %s referenced by pet %s does not exist; data is corrupt", pet.GroupCode, pet.ID)
			return nil, fmt.Errorf("group %s for pet %s: %w", pet.GroupCode, pet.ID, ErrConsistency)
		}
		return nil, err
	}
	return group, nil
}

func (s *AccessService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
