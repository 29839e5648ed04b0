package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"parley/infrastructure"
)

type Saver interface {
	SaveProfile(tx *sql.Tx, profile *Profile) error
}

type Updater interface {
	UpdateProfile(tx *sql.Tx, profile *Profile) error
	TouchLastSeen(tx *sql.Tx, userID string, at time.Time) error
}

type Provider interface {
	ProfileByUserID(userID string) (*Profile, error)
	ProfileByTag(tag string) (*Profile, error)
	SearchProfiles(query, excludeUserID string, limit int) ([]*Profile, error)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewProfilePostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) SaveProfile(tx *sql.Tx, profile *Profile) error {
	_, err := tx.Exec(`
		INSERT INTO profiles (user_id, tag, display_name, bio, language, online, last_seen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		profile.UserID, profile.Tag, profile.DisplayName, profile.Bio, profile.Language,
		profile.Online, profile.LastSeen, profile.CreatedAt, profile.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return infrastructure.ErrConflict
	}
	return err
}

func (s *PostgresStorage) UpdateProfile(tx *sql.Tx, profile *Profile) error {
	_, err := tx.Exec(`
		UPDATE profiles SET
		display_name = $2, bio = $3, language = $4, updated_at = $5
		WHERE user_id = $1`,
		profile.UserID, profile.DisplayName, profile.Bio, profile.Language, profile.UpdatedAt)
	return err
}

func (s *PostgresStorage) TouchLastSeen(tx *sql.Tx, userID string, at time.Time) error {
	_, err := tx.Exec("UPDATE profiles SET online = TRUE, last_seen = $1 WHERE user_id = $2", at, userID)
	return err
}

func (s *PostgresStorage) ProfileByUserID(userID string) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(`
		SELECT user_id, tag, display_name, bio, language, online, last_seen, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID))
}

func (s *PostgresStorage) ProfileByTag(tag string) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(`
		SELECT user_id, tag, display_name, bio, language, online, last_seen, created_at, updated_at
		FROM profiles WHERE tag = $1`, tag))
}

// likeEscaper neutralizes LIKE metacharacters so user input always
// matches literally inside the ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *PostgresStorage) SearchProfiles(query, excludeUserID string, limit int) ([]*Profile, error) {
	rows, err := s.db.Query(`
		SELECT user_id, tag, display_name, bio, language, online, last_seen, created_at, updated_at
		FROM profiles
		WHERE user_id != $2 AND (tag ILIKE $1 OR display_name ILIKE $1)
		ORDER BY tag
		LIMIT $3`, "%"+likeEscaper.Replace(query)+"%", excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.Tag, &p.DisplayName, &p.Bio, &p.Language,
			&p.Online, &p.LastSeen, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

func (s *PostgresStorage) scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.UserID, &p.Tag, &p.DisplayName, &p.Bio, &p.Language,
		&p.Online, &p.LastSeen, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
