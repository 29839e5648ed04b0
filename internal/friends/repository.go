package friends

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
	Create(ctx context.Context, friendship *Friendship) error
	ByID(ctx context.Context, id uuid.UUID) (*Friendship, error)
	ByPair(ctx context.Context, userA, userB string) (*Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*View, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, friendship *Friendship) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friendships (id, user_id, friend_id, pair_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		friendship.ID, friendship.UserID, friendship.FriendID,
		PairKey(friendship.UserID, friendship.FriendID),
		friendship.Status, friendship.CreatedAt, friendship.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return infrastructure.ErrConflict
	}
	return err
}

const selectFriendshipColumns = `
	SELECT id, user_id, friend_id, status, created_at, updated_at
	FROM friendships`

func scanFriendship(row *sql.Row) (*Friendship, error) {
	var f Friendship
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infrastructure.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PostgresRepository) ByID(ctx context.Context, id uuid.UUID) (*Friendship, error) {
	return scanFriendship(r.db.QueryRowContext(ctx, selectFriendshipColumns+" WHERE id = $1", id))
}

func (r *PostgresRepository) ByPair(ctx context.Context, userA, userB string) (*Friendship, error) {
	return scanFriendship(r.db.QueryRowContext(ctx,
		selectFriendshipColumns+" WHERE pair_key = $1", PairKey(userA, userB)))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE friendships SET status = $2, updated_at = $3 WHERE id = $1", id, status, at)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return infrastructure.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*View, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at, f.updated_at,
		       p.user_id, p.tag, p.display_name, p.online, p.last_seen
		FROM friendships f
		LEFT JOIN profiles p
		  ON p.user_id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
		WHERE f.user_id = $1 OR f.friend_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*View
	for rows.Next() {
		var (
			v           View
			profileID   sql.NullString
			tag         sql.NullString
			displayName sql.NullString
			online      sql.NullBool
			lastSeen    sql.NullTime
		)
		err := rows.Scan(&v.ID, &v.UserID, &v.FriendID, &v.Status, &v.CreatedAt, &v.UpdatedAt,
			&profileID, &tag, &displayName, &online, &lastSeen)
		if err != nil {
			return nil, err
		}
		if profileID.Valid {
			v.Profile = &profile.Profile{
				UserID:      profileID.String,
				Tag:         tag.String,
				DisplayName: displayName.String,
				Online:      online.Bool,
				LastSeen:    lastSeen.Time,
			}
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
