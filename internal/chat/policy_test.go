package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	creator := "alice"
	chatID := uuid.New()

	makeChat := func(kind Kind) *Chat {
		c := &Chat{ID: chatID, Kind: kind}
		if kind != KindPrivate {
			c.CreatorID = &creator
		}
		return c
	}
	part := func(userID string, role Role) *Participation {
		return &Participation{ChatID: chatID, UserID: userID, Role: role}
	}

	tests := []struct {
		name   string
		action Action
		chat   *Chat
		p      *Participation
		want   bool
	}{
		{"post in private as member", ActionPost, makeChat(KindPrivate), part("bob", RoleMember), true},
		{"post in group as member", ActionPost, makeChat(KindGroup), part("bob", RoleMember), true},
		{"post in channel as member", ActionPost, makeChat(KindChannel), part("bob", RoleMember), false},
		{"post in channel as admin", ActionPost, makeChat(KindChannel), part("alice", RoleAdmin), true},

		{"edit group as member", ActionEditInfo, makeChat(KindGroup), part("bob", RoleMember), false},
		{"edit group as admin", ActionEditInfo, makeChat(KindGroup), part("bob", RoleAdmin), true},
		{"edit private chat", ActionEditInfo, makeChat(KindPrivate), part("bob", RoleAdmin), false},

		{"add member as admin", ActionAddMember, makeChat(KindGroup), part("bob", RoleAdmin), true},
		{"add member as member", ActionAddMember, makeChat(KindGroup), part("bob", RoleMember), false},
		{"add member to private chat", ActionAddMember, makeChat(KindPrivate), part("bob", RoleAdmin), false},

		{"remove other as admin", ActionRemoveOther, makeChat(KindChannel), part("bob", RoleAdmin), true},
		{"remove other as member", ActionRemoveOther, makeChat(KindChannel), part("bob", RoleMember), false},

		{"change role as admin", ActionChangeRole, makeChat(KindGroup), part("bob", RoleAdmin), true},
		{"change role as member", ActionChangeRole, makeChat(KindGroup), part("bob", RoleMember), false},

		{"delete as creator", ActionDeleteChat, makeChat(KindGroup), part("alice", RoleAdmin), true},
		{"delete as non-creator admin", ActionDeleteChat, makeChat(KindGroup), part("bob", RoleAdmin), false},
		{"delete private chat", ActionDeleteChat, makeChat(KindPrivate), part("alice", RoleAdmin), false},

		{"nil chat", ActionPost, nil, part("bob", RoleMember), false},
		{"nil participation", ActionPost, makeChat(KindGroup), nil, false},
		{"participation for another chat", ActionPost, makeChat(KindGroup), &Participation{ChatID: uuid.New(), UserID: "bob", Role: RoleAdmin}, false},
		{"unknown action", Action("archive"), makeChat(KindGroup), part("alice", RoleAdmin), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.action, tt.chat, tt.p))
		})
	}
}

func TestPrivatePairKey(t *testing.T) {
	assert.Equal(t, PrivatePairKey("alice", "bob"), PrivatePairKey("bob", "alice"))
	assert.Equal(t, "alice:bob", PrivatePairKey("bob", "alice"))
}
