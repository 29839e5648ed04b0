package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"parley/infrastructure"
)

const (
	searchMinQueryLength = 2
	searchResultLimit    = 20
)

type UseCase struct {
	repo      Repository
	sanitizer *bluemonday.Policy
}

func NewUseCase(repo Repository) *UseCase {
	return &UseCase{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Me returns the caller's profile, creating it on first contact. The
// identity provider only hands us an opaque id, so the initial tag is
// derived from it and can be made unique with a random suffix.
func (uc *UseCase) Me(ctx context.Context, callerID string) (*Profile, error) {
	p, err := uc.repo.ByUserID(ctx, callerID)
	if err == nil {
		if err := uc.repo.TouchLastSeen(ctx, callerID, time.Now()); err != nil {
			return nil, err
		}
		p.Online = true
		p.LastSeen = time.Now()
		return p, nil
	}
	if !errors.Is(err, infrastructure.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	p = &Profile{
		UserID:    callerID,
		Tag:       uc.freeTag(ctx, defaultTag(callerID)),
		Language:  LanguageEnglish,
		Online:    true,
		LastSeen:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		// A concurrent first request may have won the insert; serve its row.
		if errors.Is(err, infrastructure.ErrConflict) {
			if existing, lookupErr := uc.repo.ByUserID(ctx, callerID); lookupErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return p, nil
}

type UpdateParams struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Language    *string `json:"language"`
}

func (uc *UseCase) Update(ctx context.Context, callerID string, params UpdateParams) (*Profile, error) {
	p, err := uc.repo.ByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if params.DisplayName != nil {
		name := strings.TrimSpace(*params.DisplayName)
		if len(name) > MaxDisplayNameLength {
			return nil, infrastructure.NewValidationError("display_name", "too long")
		}
		p.DisplayName = name
	}
	if params.Bio != nil {
		bio := uc.sanitizer.Sanitize(strings.TrimSpace(*params.Bio))
		if len(bio) > MaxBioLength {
			return nil, infrastructure.NewValidationError("bio", "too long")
		}
		p.Bio = bio
	}
	if params.Language != nil {
		lang := Language(*params.Language)
		if !lang.Valid() {
			return nil, infrastructure.NewValidationError("language", "unsupported language")
		}
		p.Language = lang
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *UseCase) Search(ctx context.Context, callerID, query string) ([]*Profile, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinQueryLength {
		return nil, infrastructure.NewValidationError("query", "must be at least 2 characters")
	}
	return uc.repo.Search(ctx, query, callerID, searchResultLimit)
}

func defaultTag(userID string) string {
	tag := strings.Builder{}
	for _, r := range strings.ToLower(userID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			tag.WriteRune(r)
		}
		if tag.Len() == 12 {
			break
		}
	}
	if tag.Len() == 0 {
		return "user" + infrastructure.GenerateRandomString(8)
	}
	return "user" + tag.String()
}

func (uc *UseCase) freeTag(ctx context.Context, tag string) string {
	candidate := tag
	for i := 0; i < 5; i++ {
		if _, err := uc.repo.ByTag(ctx, candidate); errors.Is(err, infrastructure.ErrNotFound) {
			return candidate
		}
		candidate = tag + infrastructure.GenerateRandomString(4)
	}
	return tag + infrastructure.GenerateRandomString(8)
}
