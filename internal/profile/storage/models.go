package storage

import "time"

type Profile struct {
	UserID      string
	Tag         string
	DisplayName string
	Bio         string
	Language    string
	Online      bool
	LastSeen    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
