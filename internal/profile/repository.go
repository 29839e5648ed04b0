package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parley/infrastructure"
	"parley/internal/profile/storage"
)

type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	ByUserID(ctx context.Context, userID string) (*Profile, error)
	ByTag(ctx context.Context, tag string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	TouchLastSeen(ctx context.Context, userID string, at time.Time) error
	Search(ctx context.Context, query, excludeUserID string, limit int) ([]*Profile, error)
}

type repository struct {
	*sql.DB
	profileSaver    storage.Saver
	profileProvider storage.Provider
	profileUpdater  storage.Updater
}

func NewRepository(
	db *sql.DB,
	profileSaver storage.Saver,
	profileProvider storage.Provider,
	profileUpdater storage.Updater,
) Repository {
	return &repository{
		DB:              db,
		profileSaver:    profileSaver,
		profileProvider: profileProvider,
		profileUpdater:  profileUpdater,
	}
}

func (r *repository) Create(ctx context.Context, profile *Profile) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.profileSaver.SaveProfile(tx, ConvertProfileToDBProfile(profile))
	})
}

func (r *repository) ByUserID(ctx context.Context, userID string) (*Profile, error) {
	dbProfile, err := r.profileProvider.ProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infrastructure.ErrNotFound
		}
		return nil, err
	}
	return ConvertDBProfileToProfile(dbProfile), nil
}

func (r *repository) ByTag(ctx context.Context, tag string) (*Profile, error) {
	dbProfile, err := r.profileProvider.ProfileByTag(tag)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infrastructure.ErrNotFound
		}
		return nil, err
	}
	return ConvertDBProfileToProfile(dbProfile), nil
}

func (r *repository) Update(ctx context.Context, profile *Profile) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.profileUpdater.UpdateProfile(tx, ConvertProfileToDBProfile(profile))
	})
}

func (r *repository) TouchLastSeen(ctx context.Context, userID string, at time.Time) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.profileUpdater.TouchLastSeen(tx, userID, at)
	})
}

func (r *repository) Search(ctx context.Context, query, excludeUserID string, limit int) ([]*Profile, error) {
	dbProfiles, err := r.profileProvider.SearchProfiles(query, excludeUserID, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, len(dbProfiles))
	for i, dbProfile := range dbProfiles {
		profiles[i] = ConvertDBProfileToProfile(dbProfile)
	}
	return profiles, nil
}
