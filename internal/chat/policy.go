package chat

// Action is an operation gated by membership role.
type Action string

const (
	ActionPost        Action = "post"
	ActionEditInfo    Action = "edit_info"
	ActionDeleteChat  Action = "delete_chat"
	ActionAddMember   Action = "add_member"
	ActionRemoveOther Action = "remove_other"
	ActionChangeRole  Action = "change_role"
)

// CanPerform is the single place deciding what a participation allows.
// Handlers never re-derive admin/creator checks themselves.
//
// Channels only accept posts from admins; groups and private chats accept
// posts from any participant. Membership and settings mutations exist only
// on groups and channels, require admin role, and outright deletion is
// reserved for the creator. The caller-is-not-removing-the-creator rule is
// target-dependent and enforced by the use case on top of this.
func CanPerform(action Action, chat *Chat, p *Participation) bool {
	if chat == nil || p == nil || p.ChatID != chat.ID {
		return false
	}

	switch action {
	case ActionPost:
		if chat.Kind == KindChannel {
			return p.Role == RoleAdmin
		}
		return true
	case ActionEditInfo, ActionAddMember, ActionRemoveOther, ActionChangeRole:
		return chat.Kind != KindPrivate && p.Role == RoleAdmin
	case ActionDeleteChat:
		return chat.Kind != KindPrivate && chat.IsCreator(p.UserID)
	}
	return false
}
