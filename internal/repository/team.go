package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/model"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrMemberNotFound      = errors.New("team member not found")
	ErrDuplicateInviteCode = errors.New("invite code already exists")
	ErrDuplicateMember     = errors.New("user is already a team member")
)

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	ByID(ctx context.Context, id string) (*model.Team, error)
	ByInviteCode(ctx context.Context, code string) (*model.Team, error)
	ByUserID(ctx context.Context, userID string) ([]*model.Team, error)
	ByIDs(ctx context.Context, ids []string) ([]*model.Team, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, member *model.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	Member(ctx context.Context, teamID, userID string) (*model.TeamMember, error)
	Members(ctx context.Context, teamIDs []string) ([]*model.TeamMember, error)
	WithTx(tx *sqlx.Tx) TeamRepository
}

type teamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db *sqlx.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) WithTx(tx *sqlx.Tx) TeamRepository {
	return &teamRepository{db: tx}
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO teams (id, name, description, invite_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, team.ID, team.Name, team.Description, team.InviteCode, team.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateInviteCode
	}

	return err
}

func (r *teamRepository) ByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := sqlx.GetContext(ctx, r.db, &team, `SELECT * FROM teams WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *teamRepository) ByInviteCode(ctx context.Context, code string) (*model.Team, error) {
	var team model.Team
	err := sqlx.GetContext(ctx, r.db, &team, `SELECT * FROM teams WHERE invite_code = $1`, code)
	if err == sql.ErrNoRows {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	return &team, nil
}

// ByUserID returns the teams the user belongs to, newest first.
func (r *teamRepository) ByUserID(ctx context.Context, userID string) ([]*model.Team, error) {
	var teams []*model.Team
	err := sqlx.SelectContext(ctx, r.db, &teams, `
		SELECT t.* FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)

	return teams, err
}

func (r *teamRepository) ByIDs(ctx context.Context, ids []string) ([]*model.Team, error) {
	var teams []*model.Team
	err := selectIn(ctx, r.db, &teams, `SELECT * FROM teams WHERE id IN (?) ORDER BY name`, ids)
	return teams, err
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrTeamNotFound)
}

func (r *teamRepository) AddMember(ctx context.Context, member *model.TeamMember) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_members (id, team_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, member.ID, member.TeamID, member.UserID, member.Role, member.JoinedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateMember
	}

	return err
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return err
	}

	return affected(result, ErrMemberNotFound)
}

func (r *teamRepository) Member(ctx context.Context, teamID, userID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := sqlx.GetContext(ctx, r.db, &member, `
		SELECT * FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *teamRepository) Members(ctx context.Context, teamIDs []string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := selectIn(ctx, r.db, &members, `SELECT * FROM team_members WHERE team_id IN (?) ORDER BY joined_at`, teamIDs)
	return members, err
}
