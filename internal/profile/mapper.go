package profile

import "parley/internal/profile/storage"

func ConvertDBProfileToProfile(p *storage.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		UserID:      p.UserID,
		Tag:         p.Tag,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		Language:    Language(p.Language),
		Online:      p.Online,
		LastSeen:    p.LastSeen,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ConvertProfileToDBProfile(p *Profile) *storage.Profile {
	if p == nil {
		return nil
	}
	return &storage.Profile{
		UserID:      p.UserID,
		Tag:         p.Tag,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		Language:    string(p.Language),
		Online:      p.Online,
		LastSeen:    p.LastSeen,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
