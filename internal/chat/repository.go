package chat

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"parley/infrastructure"
	"parley/internal/profile"
)

type Repository interface {
	// Chat operations
	CreateGroupChat(ctx context.Context, chat *Chat, participations []*Participation) error
	CreateOrGetPrivateChat(ctx context.Context, chat *Chat, userA, userB string) (*Chat, error)
	ChatByID(ctx context.Context, chatID uuid.UUID) (*Chat, error)
	PrivateChatBetween(ctx context.Context, userA, userB string) (*Chat, error)
	UpdateChatInfo(ctx context.Context, chat *Chat) error
	DeleteChat(ctx context.Context, chatID uuid.UUID) error

	// Participation operations
	AddParticipants(ctx context.Context, participations []*Participation) error
	RemoveParticipant(ctx context.Context, chatID uuid.UUID, userID string) error
	UpdateRole(ctx context.Context, chatID uuid.UUID, userID string, role Role) error
	Participation(ctx context.Context, chatID uuid.UUID, userID string) (*Participation, error)
	Participants(ctx context.Context, chatID uuid.UUID) ([]*Participant, error)
	ParticipationsByUser(ctx context.Context, userID string) ([]*Participation, error)
	MarkRead(ctx context.Context, chatID uuid.UUID, userID string, at time.Time) error

	// Message operations
	CreateMessage(ctx context.Context, message *Message) error
	Messages(ctx context.Context, chatID uuid.UUID, limit int) ([]*Message, error)
	LastMessage(ctx context.Context, chatID uuid.UUID) (*Message, error)
	UnreadCount(ctx context.Context, chatID uuid.UUID, userID string, since *time.Time) (int, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const selectChatColumns = `
	SELECT id, kind, name, description, icon_url, creator_id, created_at, last_activity_at
	FROM chats`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row rowScanner) (*Chat, error) {
	var c Chat
	err := row.Scan(&c.ID, &c.Kind, &c.Name, &c.Description, &c.IconURL,
		&c.CreatorID, &c.CreatedAt, &c.LastActivityAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infrastructure.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) CreateGroupChat(ctx context.Context, chat *Chat, participations []*Participation) error {
	return infrastructure.WithTransaction(r.db, ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO chats (id, kind, name, description, icon_url, creator_id, created_at, last_activity_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			chat.ID, chat.Kind, chat.Name, chat.Description, chat.IconURL,
			chat.CreatorID, chat.CreatedAt, chat.LastActivityAt)
		if err != nil {
			return err
		}
		for _, p := range participations {
			if err := insertParticipation(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateOrGetPrivateChat inserts the private chat guarded by the
// chats.private_key unique index. When a concurrent (or earlier) creation
// already claimed the pair, the existing chat is returned instead.
func (r *PostgresRepository) CreateOrGetPrivateChat(ctx context.Context, chat *Chat, userA, userB string) (*Chat, error) {
	key := PrivatePairKey(userA, userB)
	var result *Chat
	err := infrastructure.WithTransaction(r.db, ctx, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO chats (id, kind, private_key, created_at, last_activity_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (private_key) DO NOTHING`,
			chat.ID, chat.Kind, key, chat.CreatedAt, chat.LastActivityAt)
		if err != nil {
			return err
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if inserted == 0 {
			existing, err := scanChat(tx.QueryRow(selectChatColumns+" WHERE private_key = $1", key))
			if err != nil {
				return err
			}
			result = existing
			return nil
		}
		for _, userID := range []string{userA, userB} {
			p := &Participation{ChatID: chat.ID, UserID: userID, Role: RoleMember, JoinedAt: chat.CreatedAt}
			if err := insertParticipation(tx, p); err != nil {
				return err
			}
		}
		result = chat
		return nil
	})
	return result, err
}

func (r *PostgresRepository) ChatByID(ctx context.Context, chatID uuid.UUID) (*Chat, error) {
	return scanChat(r.db.QueryRowContext(ctx, selectChatColumns+" WHERE id = $1", chatID))
}

func (r *PostgresRepository) PrivateChatBetween(ctx context.Context, userA, userB string) (*Chat, error) {
	return scanChat(r.db.QueryRowContext(ctx,
		selectChatColumns+" WHERE private_key = $1", PrivatePairKey(userA, userB)))
}

func (r *PostgresRepository) UpdateChatInfo(ctx context.Context, chat *Chat) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE chats SET name = $2, description = $3, icon_url = $4 WHERE id = $1`,
		chat.ID, chat.Name, chat.Description, chat.IconURL)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PostgresRepository) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	return infrastructure.WithTransaction(r.db, ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = $1", chatID); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM participations WHERE chat_id = $1", chatID); err != nil {
			return err
		}
		res, err := tx.Exec("DELETE FROM chats WHERE id = $1", chatID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

func insertParticipation(tx *sql.Tx, p *Participation) error {
	_, err := tx.Exec(`
		INSERT INTO participations (chat_id, user_id, role, joined_at, last_read_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ChatID, p.UserID, p.Role, p.JoinedAt, p.LastReadAt)
	if isUniqueViolation(err) {
		return infrastructure.ErrConflict
	}
	return err
}

// AddParticipants inserts all rows in one transaction: a duplicate
// membership partway through rolls back the earlier inserts.
func (r *PostgresRepository) AddParticipants(ctx context.Context, participations []*Participation) error {
	return infrastructure.WithTransaction(r.db, ctx, func(tx *sql.Tx) error {
		for _, p := range participations {
			if err := insertParticipation(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) RemoveParticipant(ctx context.Context, chatID uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM participations WHERE chat_id = $1 AND user_id = $2", chatID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, chatID uuid.UUID, userID string, role Role) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE participations SET role = $3 WHERE chat_id = $1 AND user_id = $2", chatID, userID, role)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PostgresRepository) Participation(ctx context.Context, chatID uuid.UUID, userID string) (*Participation, error) {
	var p Participation
	err := r.db.QueryRowContext(ctx, `
		SELECT chat_id, user_id, role, joined_at, last_read_at
		FROM participations WHERE chat_id = $1 AND user_id = $2`, chatID, userID).
		Scan(&p.ChatID, &p.UserID, &p.Role, &p.JoinedAt, &p.LastReadAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infrastructure.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) Participants(ctx context.Context, chatID uuid.UUID) ([]*Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.chat_id, p.user_id, p.role, p.joined_at, p.last_read_at,
		       pr.tag, pr.display_name, pr.bio, pr.language, pr.online, pr.last_seen
		FROM participations p
		LEFT JOIN profiles pr ON pr.user_id = p.user_id
		WHERE p.chat_id = $1
		ORDER BY p.joined_at`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		var (
			participant Participant
			tag         sql.NullString
			displayName sql.NullString
			bio         sql.NullString
			language    sql.NullString
			online      sql.NullBool
			lastSeen    sql.NullTime
		)
		err := rows.Scan(&participant.ChatID, &participant.UserID, &participant.Role,
			&participant.JoinedAt, &participant.LastReadAt,
			&tag, &displayName, &bio, &language, &online, &lastSeen)
		if err != nil {
			return nil, err
		}
		if tag.Valid {
			participant.Profile = &profile.Profile{
				UserID:      participant.UserID,
				Tag:         tag.String,
				DisplayName: displayName.String,
				Bio:         bio.String,
				Language:    profile.Language(language.String),
				Online:      online.Bool,
				LastSeen:    lastSeen.Time,
			}
		}
		participants = append(participants, &participant)
	}
	return participants, rows.Err()
}

func (r *PostgresRepository) ParticipationsByUser(ctx context.Context, userID string) ([]*Participation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, user_id, role, joined_at, last_read_at
		FROM participations WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participations []*Participation
	for rows.Next() {
		var p Participation
		if err := rows.Scan(&p.ChatID, &p.UserID, &p.Role, &p.JoinedAt, &p.LastReadAt); err != nil {
			return nil, err
		}
		participations = append(participations, &p)
	}
	return participations, rows.Err()
}

func (r *PostgresRepository) MarkRead(ctx context.Context, chatID uuid.UUID, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE participations SET last_read_at = $3 WHERE chat_id = $1 AND user_id = $2",
		chatID, userID, at)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CreateMessage appends the message and touches the parent chat's
// last-activity timestamp in the same transaction so list ordering
// reflects it.
func (r *PostgresRepository) CreateMessage(ctx context.Context, message *Message) error {
	return infrastructure.WithTransaction(r.db, ctx, func(tx *sql.Tx) error {
		var url, name *string
		var size *int64
		if message.Attachment != nil {
			url, name, size = &message.Attachment.URL, &message.Attachment.Name, &message.Attachment.Size
		}
		_, err := tx.Exec(`
			INSERT INTO messages (id, chat_id, sender_id, content, kind, attachment_url, attachment_name, attachment_size, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)`,
			message.ID, message.ChatID, message.SenderID, message.Content, message.Kind,
			url, name, size, message.CreatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec("UPDATE chats SET last_activity_at = $2 WHERE id = $1",
			message.ChatID, message.CreatedAt)
		return err
	})
}

const selectMessageColumns = `
	SELECT id, chat_id, sender_id, content, kind, attachment_url, attachment_name, attachment_size, created_at
	FROM messages`

func scanMessage(row rowScanner) (*Message, error) {
	var (
		m    Message
		url  sql.NullString
		name sql.NullString
		size sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Kind,
		&url, &name, &size, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if url.Valid {
		m.Attachment = &Attachment{URL: url.String, Name: name.String, Size: size.Int64}
	}
	return &m, nil
}

// Messages returns the most recent messages, newest first. The caller
// reverses them into chronological order for the client.
func (r *PostgresRepository) Messages(ctx context.Context, chatID uuid.UUID, limit int) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx,
		selectMessageColumns+" WHERE chat_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2",
		chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresRepository) LastMessage(ctx context.Context, chatID uuid.UUID) (*Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx,
		selectMessageColumns+" WHERE chat_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1", chatID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// UnreadCount counts messages authored by others strictly after the
// caller's read cursor; a nil cursor counts every foreign message.
func (r *PostgresRepository) UnreadCount(ctx context.Context, chatID uuid.UUID, userID string, since *time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE chat_id = $1 AND sender_id != $2 AND ($3::timestamptz IS NULL OR created_at > $3)`,
		chatID, userID, since).Scan(&count)
	return count, err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return infrastructure.ErrNotFound
	}
	return nil
}
