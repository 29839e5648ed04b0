package friends

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/infrastructure"
	"parley/internal/profile"
)

type memRepo struct {
	byID   map[uuid.UUID]*Friendship
	byPair map[string]uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{
		byID:   make(map[uuid.UUID]*Friendship),
		byPair: make(map[string]uuid.UUID),
	}
}

func (r *memRepo) Create(_ context.Context, f *Friendship) error {
	key := PairKey(f.UserID, f.FriendID)
	if _, ok := r.byPair[key]; ok {
		return infrastructure.ErrConflict
	}
	cp := *f
	r.byID[f.ID] = &cp
	r.byPair[key] = f.ID
	return nil
}

func (r *memRepo) ByID(_ context.Context, id uuid.UUID) (*Friendship, error) {
	f, ok := r.byID[id]
	if !ok {
		return nil, infrastructure.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memRepo) ByPair(_ context.Context, userA, userB string) (*Friendship, error) {
	id, ok := r.byPair[PairKey(userA, userB)]
	if !ok {
		return nil, infrastructure.ErrNotFound
	}
	return r.ByID(context.Background(), id)
}

func (r *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status, at time.Time) error {
	f, ok := r.byID[id]
	if !ok {
		return infrastructure.ErrNotFound
	}
	f.Status = status
	f.UpdatedAt = at
	return nil
}

func (r *memRepo) ListByUser(_ context.Context, userID string) ([]*View, error) {
	var out []*View
	for _, f := range r.byID {
		if f.UserID == userID || f.FriendID == userID {
			out = append(out, &View{Friendship: *f})
		}
	}
	return out, nil
}

type memProfiles struct {
	ids map[string]bool
}

func (m *memProfiles) Create(_ context.Context, p *profile.Profile) error { return nil }

func (m *memProfiles) ByUserID(_ context.Context, userID string) (*profile.Profile, error) {
	if !m.ids[userID] {
		return nil, infrastructure.ErrNotFound
	}
	return &profile.Profile{UserID: userID}, nil
}

func (m *memProfiles) ByTag(_ context.Context, tag string) (*profile.Profile, error) {
	return nil, infrastructure.ErrNotFound
}

func (m *memProfiles) Update(_ context.Context, p *profile.Profile) error { return nil }

func (m *memProfiles) TouchLastSeen(_ context.Context, userID string, at time.Time) error {
	return nil
}

func (m *memProfiles) Search(_ context.Context, query, excludeUserID string, limit int) ([]*profile.Profile, error) {
	return nil, nil
}

func newTestUseCase(userIDs ...string) *UseCase {
	profiles := &memProfiles{ids: make(map[string]bool)}
	for _, id := range userIDs {
		profiles.ids[id] = true
	}
	return NewUseCase(newMemRepo(), profiles)
}

func TestRequest(t *testing.T) {
	uc := newTestUseCase("alice", "bob")
	ctx := context.Background()

	f, err := uc.Request(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, f.Status)
	assert.Equal(t, "alice", f.UserID)
	assert.Equal(t, "bob", f.FriendID)

	_, err = uc.Request(ctx, "alice", "alice")
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	_, err = uc.Request(ctx, "alice", "nobody")
	assert.ErrorIs(t, err, infrastructure.ErrNotFound)
}

func TestRequest_PairIsUniqueInBothDirections(t *testing.T) {
	uc := newTestUseCase("alice", "bob")
	ctx := context.Background()

	_, err := uc.Request(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = uc.Request(ctx, "alice", "bob")
	assert.ErrorIs(t, err, infrastructure.ErrConflict)

	// the reverse direction hits the same pair
	_, err = uc.Request(ctx, "bob", "alice")
	assert.ErrorIs(t, err, infrastructure.ErrConflict)
}

func TestRespond(t *testing.T) {
	uc := newTestUseCase("alice", "bob")
	ctx := context.Background()

	f, err := uc.Request(ctx, "alice", "bob")
	require.NoError(t, err)

	// only the recipient may respond
	_, err = uc.Respond(ctx, "alice", f.ID, StatusAccepted)
	assert.ErrorIs(t, err, infrastructure.ErrForbidden)

	_, err = uc.Respond(ctx, "bob", f.ID, Status("banned"))
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	accepted, err := uc.Respond(ctx, "bob", f.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)

	// a settled request cannot be responded to again
	_, err = uc.Respond(ctx, "bob", f.ID, StatusRejected)
	assert.ErrorIs(t, err, infrastructure.ErrConflict)

	_, err = uc.Respond(ctx, "bob", uuid.New(), StatusAccepted)
	assert.ErrorIs(t, err, infrastructure.ErrNotFound)
}

func TestList(t *testing.T) {
	uc := newTestUseCase("alice", "bob", "carol")
	ctx := context.Background()

	_, err := uc.Request(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = uc.Request(ctx, "carol", "alice")
	require.NoError(t, err)

	views, err := uc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = uc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, views, 1)
}
