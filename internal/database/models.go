package database

import "time"

// Schema models used only by AutoMigrate. The repositories run raw SQL
// against the same tables; keep column names in sync.

type Profile struct {
	UserID      string `gorm:"primaryKey"`
	Tag         string `gorm:"uniqueIndex;not null"`
	DisplayName string
	Bio         string
	Language    string `gorm:"not null;default:en"`
	Online      bool   `gorm:"not null;default:false"`
	LastSeen    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Chat struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Kind        string `gorm:"not null"`
	Name        *string
	Description *string
	IconURL     *string
	CreatorID   *string
	// Normalized "min:max" pair of user ids, set only for private chats.
	// The unique index is what makes private-chat creation race-free.
	PrivateKey     *string `gorm:"uniqueIndex"`
	CreatedAt      time.Time
	LastActivityAt time.Time

	Participations []Participation `gorm:"constraint:OnDelete:CASCADE"`
	Messages       []Message       `gorm:"constraint:OnDelete:CASCADE"`
}

type Participation struct {
	ChatID     string `gorm:"type:uuid;primaryKey"`
	UserID     string `gorm:"primaryKey"`
	Role       string `gorm:"not null;default:member"`
	JoinedAt   time.Time
	LastReadAt *time.Time
}

type Message struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ChatID         string `gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	SenderID       string `gorm:"not null"`
	Content        string
	Kind           string `gorm:"not null;default:text"`
	AttachmentURL  *string
	AttachmentName *string
	AttachmentSize *int64
	// Superseded by Participation.LastReadAt, kept for older clients.
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index:idx_messages_chat_created,priority:2"`
}

type Friendship struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	UserID   string `gorm:"not null"`
	FriendID string `gorm:"not null"`
	// Normalized "min:max" pair, one friendship record per unordered pair.
	PairKey   string `gorm:"uniqueIndex;not null"`
	Status    string `gorm:"not null;default:pending"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
