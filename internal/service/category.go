package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

const defaultCategoryColor = "#607D8B"

// CategoryInput creates a team category when TeamID is set and a global one
// otherwise.
type CategoryInput struct {
	TeamID    *string `json:"team_id"`
	Name      string  `json:"name" validate:"required,max=100"`
	Color     string  `json:"color" validate:"omitempty,hexcolor"`
	Icon      string  `json:"icon" validate:"max=50"`
	SortOrder int     `json:"sort_order"`
}

type CategoryUpdate struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color     *string `json:"color" validate:"omitempty,hexcolor"`
	Icon      *string `json:"icon" validate:"omitempty,max=50"`
	SortOrder *int    `json:"sort_order"`
}

type CategoryService struct {
	categoryRepository repository.CategoryRepository
	teamRepository     repository.TeamRepository
	profileRepository  repository.ProfileRepository
	cache              *cache.Cache
	now                func() time.Time
}

func NewCategoryService(
	categoryRepository repository.CategoryRepository,
	teamRepository repository.TeamRepository,
	profileRepository repository.ProfileRepository,
	cache *cache.Cache,
) *CategoryService {
	return &CategoryService{
		categoryRepository: categoryRepository,
		teamRepository:     teamRepository,
		profileRepository:  profileRepository,
		cache:              cache,
		now:                time.Now,
	}
}

// List returns the global categories plus those of teamID, ordered by name.
// An empty teamID returns only the global ones.
func (s *CategoryService) List(ctx context.Context, userID, teamID string) ([]*model.Category, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	scope := "global"
	if teamID != "" {
		scope = teamID
		if err := requireMember(ctx, s.teamRepository, teamID, userID); err != nil {
			return nil, err
		}
	}

	return cache.Fetch(ctx, s.cache, cache.Key{"categories", scope}, func(ctx context.Context) ([]*model.Category, error) {
		categories, err := s.categoryRepository.ForTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
		if categories == nil {
			categories = []*model.Category{}
		}
		return categories, nil
	})
}

func (s *CategoryService) Create(ctx context.Context, userID string, in CategoryInput) (*model.Category, error) {
	if in.TeamID != nil && *in.TeamID == "" {
		in.TeamID = nil
	}
	in.Name = validation.NormalizeName(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	category := &model.Category{
		ID:        uuid.NewString(),
		TeamID:    in.TeamID,
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		SortOrder: in.SortOrder,
		CreatedAt: s.now().UTC(),
	}
	if category.Color == "" {
		category.Color = defaultCategoryColor
	}

	if err := s.authorize(ctx, userID, category); err != nil {
		return nil, err
	}

	err := s.categoryRepository.Create(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.cache.Invalidate("categories")
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID string, upd CategoryUpdate) (*model.Category, error) {
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}

	category, err := s.category(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, category); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := validation.NormalizeName(*upd.Name)
		if name == "" {
			return nil, validation.FieldErrors{"name": "required"}
		}
		category.Name = name
	}
	if upd.Color != nil {
		category.Color = *upd.Color
	}
	if upd.Icon != nil {
		category.Icon = *upd.Icon
	}
	if upd.SortOrder != nil {
		category.SortOrder = *upd.SortOrder
	}

	err = s.categoryRepository.Update(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidate()
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	category, err := s.category(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, userID, category); err != nil {
		return err
	}

	err = s.categoryRepository.Delete(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidate()
	return nil
}

// SeedDefaults creates the default global categories that do not exist yet
// and returns how many were created.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for i, def := range model.DefaultCategories {
		_, err := s.categoryRepository.GlobalByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrCategoryNotFound) {
			return created, fmt.Errorf("failed to look up category %q: %w", def.Name, err)
		}

		category := def
		category.ID = uuid.NewString()
		category.SortOrder = i
		category.CreatedAt = s.now().UTC()

		err = s.categoryRepository.Create(ctx, &category)
		if err != nil {
			return created, fmt.Errorf("failed to create category %q: %w", def.Name, err)
		}
		created++
	}

	if created > 0 {
		s.cache.Invalidate("categories")
	}
	return created, nil
}

func (s *CategoryService) category(ctx context.Context, categoryID string) (*model.Category, error) {
	category, err := s.categoryRepository.ByID(ctx, categoryID)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// authorize allows app admins to change global categories and team members
// to change their team's categories.
func (s *CategoryService) authorize(ctx context.Context, userID string, c *model.Category) error {
	if c.IsGlobal() {
		return requireAppAdmin(ctx, s.profileRepository, userID)
	}
	return requireMember(ctx, s.teamRepository, *c.TeamID, userID)
}

// Categories appear in cached goal results.
func (s *CategoryService) invalidate() {
	s.cache.Invalidate("categories")
	s.cache.Invalidate("goals")
	s.cache.Invalidate("goal")
}
