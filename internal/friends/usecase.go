package friends

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"parley/infrastructure"
	"parley/internal/profile"
)

type UseCase struct {
	repo     Repository
	profiles profile.Repository
}

func NewUseCase(repo Repository, profiles profile.Repository) *UseCase {
	return &UseCase{repo: repo, profiles: profiles}
}

// Request opens a pending friendship towards another user. Any existing
// record for the pair, whatever its status, is a Conflict.
func (uc *UseCase) Request(ctx context.Context, callerID, friendID string) (*Friendship, error) {
	friendID = strings.TrimSpace(friendID)
	if friendID == "" {
		return nil, infrastructure.NewValidationError("user_id", "required")
	}
	if friendID == callerID {
		return nil, infrastructure.NewValidationError("user_id", "cannot befriend yourself")
	}
	if _, err := uc.profiles.ByUserID(ctx, friendID); err != nil {
		return nil, err
	}

	if _, err := uc.repo.ByPair(ctx, callerID, friendID); err == nil {
		return nil, infrastructure.ErrConflict
	} else if !errors.Is(err, infrastructure.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	friendship := &Friendship{
		ID:        uuid.New(),
		UserID:    callerID,
		FriendID:  friendID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// Respond lets the recipient of a pending request accept or reject it.
func (uc *UseCase) Respond(ctx context.Context, callerID string, id uuid.UUID, status Status) (*Friendship, error) {
	if status != StatusAccepted && status != StatusRejected {
		return nil, infrastructure.NewValidationError("status", "must be accepted or rejected")
	}

	friendship, err := uc.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if friendship.FriendID != callerID {
		return nil, infrastructure.ErrForbidden
	}
	if friendship.Status != StatusPending {
		return nil, infrastructure.ErrConflict
	}

	now := time.Now()
	if err := uc.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}
	friendship.Status = status
	friendship.UpdatedAt = now
	return friendship, nil
}

func (uc *UseCase) List(ctx context.Context, callerID string) ([]*View, error) {
	return uc.repo.ListByUser(ctx, callerID)
}
