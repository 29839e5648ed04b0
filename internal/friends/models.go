package friends

import (
	"time"

	"github.com/google/uuid"

	"parley/internal/profile"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Friendship links a requester (UserID) to a recipient (FriendID). At
// most one record exists per unordered pair.
type Friendship struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is a friendship joined to the counterpart's profile.
type View struct {
	Friendship
	Profile *profile.Profile `json:"profile,omitempty"`
}

func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
