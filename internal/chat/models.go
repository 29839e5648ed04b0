package chat

import (
	"time"

	"github.com/google/uuid"

	"parley/internal/profile"
)

type Kind string

const (
	KindPrivate Kind = "private"
	KindGroup   Kind = "group"
	KindChannel Kind = "channel"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPrivate, KindGroup, KindChannel:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageFile  MessageKind = "file"
	MessageVoice MessageKind = "voice"
)

func (k MessageKind) Valid() bool {
	switch k {
	case MessageText, MessageImage, MessageFile, MessageVoice:
		return true
	}
	return false
}

const (
	MaxNameLength        = 128
	MaxDescriptionLength = 512
	MaxContentLength     = 4096

	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

type Chat struct {
	ID             uuid.UUID `json:"id"`
	Kind           Kind      `json:"kind"`
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	IconURL        *string   `json:"icon_url,omitempty"`
	CreatorID      *string   `json:"creator_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func (c *Chat) IsCreator(userID string) bool {
	return c.CreatorID != nil && *c.CreatorID == userID
}

type Participation struct {
	ChatID     uuid.UUID  `json:"chat_id"`
	UserID     string     `json:"user_id"`
	Role       Role       `json:"role"`
	JoinedAt   time.Time  `json:"joined_at"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

// Participant is a participation joined to its profile for the client view.
type Participant struct {
	Participation
	Profile *profile.Profile `json:"profile,omitempty"`
}

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type Message struct {
	ID         uuid.UUID   `json:"id"`
	ChatID     uuid.UUID   `json:"chat_id"`
	SenderID   string      `json:"sender_id"`
	Content    string      `json:"content"`
	Kind       MessageKind `json:"kind"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Details struct {
	Chat
	Participants []*Participant `json:"participants"`
	LastMessage  *Message       `json:"last_message,omitempty"`
	UnreadCount  int            `json:"unread_count"`
}

type Summary struct {
	Chat
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}

// PrivatePairKey normalizes the two user ids of a private chat into the
// value stored under the chats.private_key unique index.
func PrivatePairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
