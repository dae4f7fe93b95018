// Package groups manages groups of users who share bills and join each other by code.
package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// maxCodeAttempts bounds how many codes Create tries before giving up.
const maxCodeAttempts = 5

var (
	ErrInvalidName   = errors.New("group name cannot be empty")
	ErrInvalidCode   = errors.New("invalid group code")
	ErrNotFound      = errors.New("group not found")
	ErrForbidden     = errors.New("permission denied")
	ErrCodeExhausted = errors.New("could not generate a unique group code")
)

// Registry creates, joins and deletes groups.
type Registry struct {
	store storage.GroupStore
	codes CodeGenerator
}

// NewRegistry creates a Registry. A nil generator uses RandomCodes.
func NewRegistry(store storage.GroupStore, codes CodeGenerator) *Registry {
	if codes == nil {
		codes = RandomCodes{}
	}
	return &Registry{store: store, codes: codes}
}

// Create makes a new group with the actor as creator and only member.
// A code already in use is replaced by a fresh one, up to maxCodeAttempts times.
func (r *Registry) Create(ctx context.Context, actor models.Actor, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := r.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate group code: %w", err)
		}

		group := &models.Group{
			Name:      name,
			CreatorID: actor.ID,
			Members:   []string{actor.ID},
			GroupCode: NormalizeCode(code),
		}
		err = r.store.CreateGroup(ctx, group)
		if errors.Is(err, storage.ErrConflict) {
			slog.Warn("Group code collision, retrying", "attempt", attempt, "code", group.GroupCode)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
		return group, nil
	}
	return nil, ErrCodeExhausted
}

// JoinByCode adds the actor to the group with the given code. Codes are case-insensitive.
// Joining a group one already belongs to changes nothing.
func (r *Registry) JoinByCode(ctx context.Context, actor models.Actor, code string) (*models.Group, error) {
	code = NormalizeCode(code)
	if !validCode(code) {
		return nil, ErrInvalidCode
	}

	group, err := r.store.GetGroupByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up group code: %w", err)
	}

	if group.IsMember(actor.ID) {
		return group, nil
	}
	if err := r.store.AddGroupMember(ctx, group.ID, actor.ID); err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}
	group.Members = append(group.Members, actor.ID)
	return group, nil
}

// Get returns a group the actor is a member of.
func (r *Registry) Get(ctx context.Context, actor models.Actor, groupID string) (*models.Group, error) {
	group, err := r.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(actor.ID) {
		return nil, fmt.Errorf("%s is not a member of %s: %w", actor.ID, groupID, ErrForbidden)
	}
	return group, nil
}

// ListForUser returns the actor's groups, newest first.
func (r *Registry) ListForUser(ctx context.Context, actor models.Actor) ([]*models.Group, error) {
	groups, err := r.store.ListGroupsByMember(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Delete removes a group. Only its creator may delete it; its bills remain without a group.
func (r *Registry) Delete(ctx context.Context, actor models.Actor, groupID string) error {
	group, err := r.load(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != actor.ID {
		return fmt.Errorf("only the creator may delete %s: %w", groupID, ErrForbidden)
	}
	if err := r.store.DeleteGroup(ctx, groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (r *Registry) load(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := r.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}
