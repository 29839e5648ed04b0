package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"parley/infrastructure"
	"parley/internal/profile"
)

// UseCase carries every chat, membership and message operation. The
// caller identity is always an explicit parameter, never pulled from
// ambient state.
type UseCase struct {
	repo      Repository
	profiles  profile.Repository
	sanitizer *bluemonday.Policy
}

func NewUseCase(repo Repository, profiles profile.Repository) *UseCase {
	return &UseCase{
		repo:      repo,
		profiles:  profiles,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// CreatePrivateChat finds or creates the single 1:1 chat between the
// caller and the other user. Calling it twice returns the same chat.
func (uc *UseCase) CreatePrivateChat(ctx context.Context, callerID, otherID string) (*Details, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, infrastructure.NewValidationError("participant_id", "required")
	}
	if otherID == callerID {
		return nil, infrastructure.NewValidationError("participant_id", "cannot start a chat with yourself")
	}
	if _, err := uc.profiles.ByUserID(ctx, otherID); err != nil {
		return nil, err
	}

	now := time.Now()
	chat, err := uc.repo.CreateOrGetPrivateChat(ctx, &Chat{
		ID:             uuid.New(),
		Kind:           KindPrivate,
		CreatedAt:      now,
		LastActivityAt: now,
	}, callerID, otherID)
	if err != nil {
		return nil, err
	}
	return uc.details(ctx, callerID, chat)
}

type CreateGroupParams struct {
	Kind        Kind     `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IconURL     string   `json:"icon_url"`
	MemberIDs   []string `json:"member_ids"`
}

// CreateGroupChat creates a group or channel. The creator joins as admin
// and the initial members as plain members, all in one transaction.
func (uc *UseCase) CreateGroupChat(ctx context.Context, callerID string, params CreateGroupParams) (*Details, error) {
	if params.Kind == "" {
		params.Kind = KindGroup
	}
	if params.Kind != KindGroup && params.Kind != KindChannel {
		return nil, infrastructure.NewValidationError("kind", "must be group or channel")
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, infrastructure.NewValidationError("name", "required")
	}
	if len(name) > MaxNameLength {
		return nil, infrastructure.NewValidationError("name", "too long")
	}
	if len(params.Description) > MaxDescriptionLength {
		return nil, infrastructure.NewValidationError("description", "too long")
	}

	now := time.Now()
	chat := &Chat{
		ID:             uuid.New(),
		Kind:           params.Kind,
		Name:           &name,
		CreatorID:      &callerID,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if desc := strings.TrimSpace(params.Description); desc != "" {
		chat.Description = &desc
	}
	if icon := strings.TrimSpace(params.IconURL); icon != "" {
		chat.IconURL = &icon
	}

	participations := []*Participation{
		{ChatID: chat.ID, UserID: callerID, Role: RoleAdmin, JoinedAt: now},
	}
	for _, memberID := range dedupe(params.MemberIDs, callerID) {
		if _, err := uc.profiles.ByUserID(ctx, memberID); err != nil {
			return nil, err
		}
		participations = append(participations, &Participation{
			ChatID: chat.ID, UserID: memberID, Role: RoleMember, JoinedAt: now,
		})
	}

	if err := uc.repo.CreateGroupChat(ctx, chat, participations); err != nil {
		return nil, err
	}
	return uc.details(ctx, callerID, chat)
}

// UserChats builds the caller's chat list with unread counts, ordered by
// newest activity first. Nothing is materialized; every call recomputes
// from the ledger and the message log.
func (uc *UseCase) UserChats(ctx context.Context, callerID string) ([]*Summary, error) {
	participations, err := uc.repo.ParticipationsByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(participations))
	for _, p := range participations {
		chat, err := uc.repo.ChatByID(ctx, p.ChatID)
		if err != nil {
			if errors.Is(err, infrastructure.ErrNotFound) {
				continue
			}
			return nil, err
		}
		last, err := uc.repo.LastMessage(ctx, p.ChatID)
		if err != nil {
			return nil, err
		}
		unread, err := uc.repo.UnreadCount(ctx, p.ChatID, callerID, p.LastReadAt)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &Summary{Chat: *chat, LastMessage: last, UnreadCount: unread})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return activityTime(summaries[i]).After(activityTime(summaries[j]))
	})
	return summaries, nil
}

func activityTime(s *Summary) time.Time {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt
	}
	return s.CreatedAt
}

// ChatWithDetails returns the full client aggregate for one chat. Only
// participants may fetch it, and the unread count is computed for the
// caller like in the list view.
func (uc *UseCase) ChatWithDetails(ctx context.Context, callerID string, chatID uuid.UUID) (*Details, error) {
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.participation(ctx, chatID, callerID); err != nil {
		return nil, err
	}
	return uc.details(ctx, callerID, chat)
}

func (uc *UseCase) details(ctx context.Context, callerID string, chat *Chat) (*Details, error) {
	participants, err := uc.repo.Participants(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	last, err := uc.repo.LastMessage(ctx, chat.ID)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, p := range participants {
		if p.UserID == callerID {
			unread, err = uc.repo.UnreadCount(ctx, chat.ID, callerID, p.LastReadAt)
			if err != nil {
				return nil, err
			}
			break
		}
	}

	return &Details{
		Chat:         *chat,
		Participants: participants,
		LastMessage:  last,
		UnreadCount:  unread,
	}, nil
}

// Messages returns up to limit most recent messages in ascending
// chronological order. It does not move the read cursor; the serving
// layer calls MarkRead separately, once per fetch.
func (uc *UseCase) Messages(ctx context.Context, callerID string, chatID uuid.UUID, limit int) ([]*Message, error) {
	if _, err := uc.repo.ChatByID(ctx, chatID); err != nil {
		return nil, err
	}
	if _, err := uc.participation(ctx, chatID, callerID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		limit = MaxMessageLimit
	}

	messages, err := uc.repo.Messages(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead moves the caller's read cursor to now.
func (uc *UseCase) MarkRead(ctx context.Context, callerID string, chatID uuid.UUID) error {
	if _, err := uc.participation(ctx, chatID, callerID); err != nil {
		return err
	}
	return uc.repo.MarkRead(ctx, chatID, callerID, time.Now())
}

type SendMessageParams struct {
	Content    string      `json:"content"`
	Kind       MessageKind `json:"kind"`
	Attachment *Attachment `json:"attachment"`
}

func (uc *UseCase) SendMessage(ctx context.Context, callerID string, chatID uuid.UUID, params SendMessageParams) (*Message, error) {
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	p, err := uc.participation(ctx, chatID, callerID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(ActionPost, chat, p) {
		return nil, infrastructure.ErrForbidden
	}

	if params.Kind == "" {
		params.Kind = MessageText
	}
	if !params.Kind.Valid() {
		return nil, infrastructure.NewValidationError("kind", "unknown message kind")
	}
	content := uc.sanitizer.Sanitize(strings.TrimSpace(params.Content))
	if content == "" && params.Attachment == nil {
		return nil, infrastructure.NewValidationError("content", "required")
	}
	if len(content) > MaxContentLength {
		return nil, infrastructure.NewValidationError("content", "too long")
	}
	if params.Attachment != nil && strings.TrimSpace(params.Attachment.URL) == "" {
		return nil, infrastructure.NewValidationError("attachment", "url required")
	}

	message := &Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		SenderID:   callerID,
		Content:    content,
		Kind:       params.Kind,
		Attachment: params.Attachment,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

type UpdateGroupParams struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
}

// UpdateGroupInfo lets any admin rename or re-describe a group or
// channel; the creator holds no special privilege here.
func (uc *UseCase) UpdateGroupInfo(ctx context.Context, callerID string, chatID uuid.UUID, params UpdateGroupParams) (*Details, error) {
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	p, err := uc.participation(ctx, chatID, callerID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(ActionEditInfo, chat, p) {
		return nil, infrastructure.ErrForbidden
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, infrastructure.NewValidationError("name", "required")
		}
		if len(name) > MaxNameLength {
			return nil, infrastructure.NewValidationError("name", "too long")
		}
		chat.Name = &name
	}
	if params.Description != nil {
		desc := strings.TrimSpace(*params.Description)
		if len(desc) > MaxDescriptionLength {
			return nil, infrastructure.NewValidationError("description", "too long")
		}
		if desc == "" {
			chat.Description = nil
		} else {
			chat.Description = &desc
		}
	}
	if params.IconURL != nil {
		icon := strings.TrimSpace(*params.IconURL)
		if icon == "" {
			chat.IconURL = nil
		} else {
			chat.IconURL = &icon
		}
	}

	if err := uc.repo.UpdateChatInfo(ctx, chat); err != nil {
		return nil, err
	}
	return uc.details(ctx, callerID, chat)
}

// DeleteChat cascades the chat, its participations and messages. Only
// the creator may do this.
func (uc *UseCase) DeleteChat(ctx context.Context, callerID string, chatID uuid.UUID) error {
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	p, err := uc.participation(ctx, chatID, callerID)
	if err != nil {
		return err
	}
	if !CanPerform(ActionDeleteChat, chat, p) {
		return infrastructure.ErrForbidden
	}
	return uc.repo.DeleteChat(ctx, chatID)
}

// AddMembers bulk-adds members to a group or channel in one transaction.
func (uc *UseCase) AddMembers(ctx context.Context, callerID string, chatID uuid.UUID, userIDs []string) (*Details, error) {
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	p, err := uc.participation(ctx, chatID, callerID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(ActionAddMember, chat, p) {
		return nil, infrastructure.ErrForbidden
	}

	userIDs = dedupe(userIDs, callerID)
	if len(userIDs) == 0 {
		return nil, infrastructure.NewValidationError("user_ids", "required")
	}

	now := time.Now()
	participations := make([]*Participation, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, err := uc.profiles.ByUserID(ctx, userID); err != nil {
			return nil, err
		}
		participations = append(participations, &Participation{
			ChatID: chatID, UserID: userID, Role: RoleMember, JoinedAt: now,
		})
	}
	if err := uc.repo.AddParticipants(ctx, participations); err != nil {
		return nil, err
	}
	return uc.details(ctx, callerID, chat)
}

// RemoveMember removes a participant. Anyone may leave on their own; an
// admin may remove others from a group or channel. The creator can never
// be removed by someone else.
func (uc *UseCase) RemoveMember(ctx context.Context, callerID string, chatID uuid.UUID, targetID string) error {
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.Kind == KindPrivate {
		// The participant set of a private chat is fixed at creation.
		return infrastructure.ErrForbidden
	}
	p, err := uc.participation(ctx, chatID, callerID)
	if err != nil {
		return err
	}

	if targetID != callerID {
		if chat.IsCreator(targetID) {
			return infrastructure.ErrForbidden
		}
		if !CanPerform(ActionRemoveOther, chat, p) {
			return infrastructure.ErrForbidden
		}
	}
	return uc.repo.RemoveParticipant(ctx, chatID, targetID)
}

// UpdateMemberRole promotes or demotes a participant. The creator must
// remain admin for as long as they are a participant.
func (uc *UseCase) UpdateMemberRole(ctx context.Context, callerID string, chatID uuid.UUID, targetID string, role Role) error {
	if !role.Valid() {
		return infrastructure.NewValidationError("role", "must be admin or member")
	}
	chat, err := uc.repo.ChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	p, err := uc.participation(ctx, chatID, callerID)
	if err != nil {
		return err
	}
	if !CanPerform(ActionChangeRole, chat, p) {
		return infrastructure.ErrForbidden
	}
	if chat.IsCreator(targetID) && role != RoleAdmin {
		return infrastructure.ErrForbidden
	}
	if _, err := uc.repo.Participation(ctx, chatID, targetID); err != nil {
		return err
	}
	return uc.repo.UpdateRole(ctx, chatID, targetID, role)
}

// participation resolves the caller's membership, translating absence
// into Forbidden: non-participants learn nothing about a chat.
func (uc *UseCase) participation(ctx context.Context, chatID uuid.UUID, userID string) (*Participation, error) {
	p, err := uc.repo.Participation(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, infrastructure.ErrNotFound) {
			return nil, infrastructure.ErrForbidden
		}
		return nil, err
	}
	return p, nil
}

func dedupe(userIDs []string, exclude string) []string {
	seen := map[string]bool{exclude: true}
	var out []string
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
