package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	ByID(ctx context.Context, id string) (*model.Profile, error)
	ByIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
	UpdateDisplayName(ctx context.Context, id, name string) error
	UpdateAvatarURL(ctx context.Context, id string, url *string) error
	SetAppAdmin(ctx context.Context, id string, admin bool) error
	IsAppAdmin(ctx context.Context, id string) (bool, error)
	WithTx(tx *sqlx.Tx) ProfileRepository
}

type profileRepository struct {
	db sqlx.ExtContext
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(tx *sqlx.Tx) ProfileRepository {
	return &profileRepository{db: tx}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, display_name, avatar_url, is_app_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, profile.ID, profile.DisplayName, profile.AvatarURL, profile.IsAppAdmin, profile.CreatedAt)

	return err
}

func (r *profileRepository) ByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := sqlx.GetContext(ctx, r.db, &profile, `SELECT * FROM profiles WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) ByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := selectIn(ctx, r.db, &profiles, `SELECT * FROM profiles WHERE id IN (?)`, ids)
	return profiles, err
}

func (r *profileRepository) UpdateDisplayName(ctx context.Context, id, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET display_name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	return affected(result, ErrProfileNotFound)
}

func (r *profileRepository) UpdateAvatarURL(ctx context.Context, id string, url *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET avatar_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	return affected(result, ErrProfileNotFound)
}

func (r *profileRepository) SetAppAdmin(ctx context.Context, id string, admin bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_app_admin = $1 WHERE id = $2`, admin, id)
	if err != nil {
		return err
	}
	return affected(result, ErrProfileNotFound)
}

// IsAppAdmin reads the admin flag straight from the table, bypassing any
// profile copy the caller may hold.
func (r *profileRepository) IsAppAdmin(ctx context.Context, id string) (bool, error) {
	var admin bool
	err := sqlx.GetContext(ctx, r.db, &admin, `SELECT is_app_admin FROM profiles WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return admin, err
}
