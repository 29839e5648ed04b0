package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/infrastructure"
)

type memRepo struct {
	byID map[string]*Profile
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*Profile)}
}

func (r *memRepo) Create(_ context.Context, p *Profile) error {
	if _, ok := r.byID[p.UserID]; ok {
		return infrastructure.ErrConflict
	}
	cp := *p
	r.byID[p.UserID] = &cp
	return nil
}

func (r *memRepo) ByUserID(_ context.Context, userID string) (*Profile, error) {
	p, ok := r.byID[userID]
	if !ok {
		return nil, infrastructure.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) ByTag(_ context.Context, tag string) (*Profile, error) {
	for _, p := range r.byID {
		if p.Tag == tag {
			cp := *p
			return &cp, nil
		}
	}
	return nil, infrastructure.ErrNotFound
}

func (r *memRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := r.byID[p.UserID]; !ok {
		return infrastructure.ErrNotFound
	}
	cp := *p
	r.byID[p.UserID] = &cp
	return nil
}

func (r *memRepo) TouchLastSeen(_ context.Context, userID string, at time.Time) error {
	p, ok := r.byID[userID]
	if !ok {
		return infrastructure.ErrNotFound
	}
	p.LastSeen = at
	return nil
}

func (r *memRepo) Search(_ context.Context, query, excludeUserID string, limit int) ([]*Profile, error) {
	var out []*Profile
	for _, p := range r.byID {
		if p.UserID == excludeUserID {
			continue
		}
		if strings.Contains(p.Tag, query) || strings.Contains(p.DisplayName, query) {
			cp := *p
			out = append(out, &cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestMe_CreatesProfileOnFirstContact(t *testing.T) {
	repo := newMemRepo()
	uc := NewUseCase(repo)
	ctx := context.Background()

	p, err := uc.Me(ctx, "User-42")
	require.NoError(t, err)
	assert.Equal(t, "User-42", p.UserID)
	assert.Equal(t, "useruser42", p.Tag)
	assert.Equal(t, LanguageEnglish, p.Language)
	assert.True(t, p.Online)

	again, err := uc.Me(ctx, "User-42")
	require.NoError(t, err)
	assert.Equal(t, p.Tag, again.Tag)
	assert.Len(t, repo.byID, 1)
}

// racingRepo simulates a concurrent first request inserting the profile
// between the lookup miss and the create.
type racingRepo struct {
	*memRepo
}

func (r *racingRepo) Create(_ context.Context, p *Profile) error {
	winner := *p
	winner.Tag = "settled"
	r.byID[p.UserID] = &winner
	return infrastructure.ErrConflict
}

func TestMe_ConcurrentFirstContactServesWinningRow(t *testing.T) {
	uc := NewUseCase(&racingRepo{memRepo: newMemRepo()})

	p, err := uc.Me(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.UserID)
	assert.Equal(t, "settled", p.Tag)
}

func TestMe_TagCollisionGetsSuffix(t *testing.T) {
	repo := newMemRepo()
	repo.byID["other"] = &Profile{UserID: "other", Tag: "useruser42"}
	uc := NewUseCase(repo)

	p, err := uc.Me(context.Background(), "user42")
	require.NoError(t, err)
	assert.NotEqual(t, "useruser42", p.Tag)
	assert.True(t, strings.HasPrefix(p.Tag, "useruser42"))
}

func TestUpdate(t *testing.T) {
	repo := newMemRepo()
	uc := NewUseCase(repo)
	ctx := context.Background()

	_, err := uc.Me(ctx, "alice")
	require.NoError(t, err)

	name := "Alice"
	bio := "<script>x</script>likes books"
	lang := "ru"
	p, err := uc.Update(ctx, "alice", UpdateParams{DisplayName: &name, Bio: &bio, Language: &lang})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.Equal(t, "likes books", p.Bio)
	assert.Equal(t, LanguageRussian, p.Language)

	tooLong := strings.Repeat("x", MaxDisplayNameLength+1)
	_, err = uc.Update(ctx, "alice", UpdateParams{DisplayName: &tooLong})
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	bad := "klingon"
	_, err = uc.Update(ctx, "alice", UpdateParams{Language: &bad})
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	_, err = uc.Update(ctx, "nobody", UpdateParams{DisplayName: &name})
	assert.ErrorIs(t, err, infrastructure.ErrNotFound)
}

func TestSearch(t *testing.T) {
	repo := newMemRepo()
	uc := NewUseCase(repo)
	ctx := context.Background()

	_, err := uc.Me(ctx, "alice")
	require.NoError(t, err)
	_, err = uc.Me(ctx, "alicia")
	require.NoError(t, err)

	_, err = uc.Search(ctx, "alice", "a")
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	// the caller is excluded from their own results
	results, err := uc.Search(ctx, "alice", "userali")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alicia", results[0].UserID)
}
