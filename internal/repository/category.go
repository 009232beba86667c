package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	ByID(ctx context.Context, id string) (*model.Category, error)
	ByIDs(ctx context.Context, ids []string) ([]*model.Category, error)
	// ForTeam returns global categories plus those scoped to teamID. An
	// empty teamID returns only global categories.
	ForTeam(ctx context.Context, teamID string) ([]*model.Category, error)
	GlobalByName(ctx context.Context, name string) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, team_id, name, color, icon, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.TeamID, c.Name, c.Color, c.Icon, c.SortOrder, c.CreatedAt)

	return err
}

func (r *categoryRepository) ByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.GetContext(ctx, &category, `SELECT * FROM categories WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) ByIDs(ctx context.Context, ids []string) ([]*model.Category, error) {
	var categories []*model.Category
	err := selectIn(ctx, r.db, &categories, `SELECT * FROM categories WHERE id IN (?)`, ids)
	return categories, err
}

func (r *categoryRepository) ForTeam(ctx context.Context, teamID string) ([]*model.Category, error) {
	var categories []*model.Category
	var err error

	if teamID == "" {
		err = r.db.SelectContext(ctx, &categories, `
			SELECT * FROM categories WHERE team_id IS NULL ORDER BY name ASC
		`)
	} else {
		err = r.db.SelectContext(ctx, &categories, `
			SELECT * FROM categories WHERE team_id IS NULL OR team_id = $1 ORDER BY name ASC
		`, teamID)
	}

	return categories, err
}

func (r *categoryRepository) GlobalByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.GetContext(ctx, &category, `
		SELECT * FROM categories WHERE team_id IS NULL AND name = $1
	`, name)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, color = $2, icon = $3, sort_order = $4
		WHERE id = $5
	`, c.Name, c.Color, c.Icon, c.SortOrder, c.ID)
	if err != nil {
		return err
	}

	return affected(result, ErrCategoryNotFound)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrCategoryNotFound)
}
