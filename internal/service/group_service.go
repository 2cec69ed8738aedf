package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a group. The creator is always a member, whether or not
// they appear in memberIDs.
func (s *GroupService) Create(ctx context.Context, creatorID, name string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalidInput)
	}

	members := memberIDs
	if !contains(members, creatorID) {
		members = append([]string{creatorID}, members...)
	}

	group := &models.Group{
		Name:      name,
		Members:   members,
		CreatedBy: creatorID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", name, "members", len(members))
	return group, nil
}

// Get retrieves a group; only members may see it.
func (s *GroupService) Get(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	return s.requireMember(ctx, actorID, groupID)
}

// AddMembers adds users to a group; only existing members may invite.
func (s *GroupService) AddMembers(ctx context.Context, actorID, groupID string, userIDs []string) (*models.Group, error) {
	if _, err := s.requireMember(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: no users to add", ErrInvalidInput)
	}

	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, err
	}

	slog.Info("Members added", "group_id", groupID, "added", userIDs)
	return s.store.GetGroup(ctx, groupID)
}

// ListForUser retrieves all groups the user belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// requireMember loads a group and verifies the actor belongs to it.
func (s *GroupService) requireMember(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, ErrNotMember
	}
	return group, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
