package profile

import "time"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageRussian Language = "ru"
	LanguageSpanish Language = "es"
	LanguageGerman  Language = "de"
	LanguageFrench  Language = "fr"
)

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageRussian, LanguageSpanish, LanguageGerman, LanguageFrench:
		return true
	}
	return false
}

const (
	MaxDisplayNameLength = 64
	MaxBioLength         = 500
)

type Profile struct {
	UserID      string    `json:"user_id"`
	Tag         string    `json:"tag"`
	DisplayName string    `json:"display_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Language    Language  `json:"language"`
	Online      bool      `json:"online"`
	LastSeen    time.Time `json:"last_seen"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
