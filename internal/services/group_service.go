package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/bhavika-28/pet-care-app/internal/models"
	"github.com/bhavika-28/pet-care-app/internal/repositories"
)

// GroupService resolves a user's sharing group, creating one lazily the first
// time it is needed. Groups are never created eagerly at signup.
type GroupService struct {
	groupRepo      repositories.GroupRepository
	membershipRepo repositories.MembershipRepository
	codes          *CodeGenerator
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repositories.GroupRepository, membershipRepo repositories.MembershipRepository, codes *CodeGenerator) *GroupService {
	return &GroupService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		codes:          codes,
	}
}

// ResolveOrCreateForOwner returns the owner's group code, creating the group
// if it does not exist yet. Idempotent: an existing group always wins, so
// calling this on every pet creation cannot produce duplicate groups per
// owner. A code-generation failure propagates; no partial group is written.
func (s *GroupService) ResolveOrCreateForOwner(ownerID string) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("%w: owner id is required", ErrValidation)
	}

	group, err := s.groupRepo.GetByOwner(ownerID)
	if err == nil {
		return group.GroupCode, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	code, err := s.codes.GenerateUnique(GroupCodeLength, s.groupRepo.CodeExists)
	if err != nil {
		return "", err
	}

	newGroup := &models.Group{
		Name:      fmt.Sprintf("Group %s", code),
		OwnerID:   ownerID,
		GroupCode: code,
	}
	if err := s.groupRepo.Create(newGroup); err != nil {
		return "", fmt.Errorf("failed to create group for owner %s: %w", ownerID, err)
	}

	log.Printf("Auto-created group %s for user %s", code, ownerID)
	return code, nil
}

// GroupCodeForUser returns the group code a user sees: their own group if they
// own one, otherwise the first group they belong to as a caregiver.
func (s *GroupService) GroupCodeForUser(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrValidation)
	}

	group, err := s.groupRepo.GetByOwner(userID)
	if err == nil {
		return group.GroupCode, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	groupIDs, err := s.membershipRepo.ListGroupIDsByUser(userID)
	if err != nil {
		return "", err
	}
	groups, err := s.groupRepo.GetByIDs(groupIDs)
	if err != nil {
		return "", err
	}
	if len(groups) == 0 {
		return "", fmt.Errorf("group code for user %s: %w", userID, ErrNotFound)
	}
	return groups[0].GroupCode, nil
}
