package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/db"
	"github.com/horizons-app/horizons/internal/model"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

const (
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeLength   = 8
	inviteCodeAttempts = 5
)

type TeamInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type TeamService struct {
	db                *sqlx.DB
	teamRepository    repository.TeamRepository
	profileRepository repository.ProfileRepository
	cache             *cache.Cache
	now               func() time.Time
}

func NewTeamService(
	database *sqlx.DB,
	teamRepository repository.TeamRepository,
	profileRepository repository.ProfileRepository,
	cache *cache.Cache,
) *TeamService {
	return &TeamService{
		db:                database,
		teamRepository:    teamRepository,
		profileRepository: profileRepository,
		cache:             cache,
		now:               time.Now,
	}
}

// GenerateInviteCode returns a random code without look-alike characters.
func GenerateInviteCode() (string, error) {
	size := big.NewInt(int64(len(inviteCodeAlphabet)))
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Teams returns the caller's teams, newest first, with members.
func (s *TeamService) Teams(ctx context.Context, userID string) ([]*model.TeamWithMembers, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	return cache.Fetch(ctx, s.cache, cache.Key{"teams", userID}, func(ctx context.Context) ([]*model.TeamWithMembers, error) {
		teams, err := s.teamRepository.ByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get teams: %w", err)
		}
		return s.withMembers(ctx, teams)
	})
}

func (s *TeamService) Team(ctx context.Context, userID, teamID string) (*model.TeamWithMembers, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	team, err := cache.Fetch(ctx, s.cache, cache.Key{"team", teamID}, func(ctx context.Context) (*model.TeamWithMembers, error) {
		t, err := s.teamRepository.ByID(ctx, teamID)
		if err != nil {
			return nil, err
		}

		loaded, err := s.withMembers(ctx, []*model.Team{t})
		if err != nil {
			return nil, err
		}
		return loaded[0], nil
	})
	if err != nil {
		return nil, err
	}

	if !team.HasMember(userID) {
		return nil, ErrNotTeamMember
	}

	return team, nil
}

func (s *TeamService) IsTeamAdmin(ctx context.Context, userID, teamID string) (bool, error) {
	member, err := s.teamRepository.Member(ctx, teamID, userID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Role == model.TeamRoleAdmin, nil
}

func (s *TeamService) withMembers(ctx context.Context, teams []*model.Team) ([]*model.TeamWithMembers, error) {
	teamIDs := lo.Map(teams, func(t *model.Team, _ int) string { return t.ID })

	members, err := s.teamRepository.Members(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}

	userIDs := lo.Uniq(lo.Map(members, func(m *model.TeamMember, _ int) string { return m.UserID }))
	profiles, err := s.profileRepository.ByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get member profiles: %w", err)
	}

	profileByID := lo.KeyBy(profiles, func(p *model.Profile) string { return p.ID })
	for _, m := range members {
		m.Profile = profileByID[m.UserID]
	}

	membersByTeam := lo.GroupBy(members, func(m *model.TeamMember) string { return m.TeamID })
	result := make([]*model.TeamWithMembers, 0, len(teams))
	for _, t := range teams {
		tm := &model.TeamWithMembers{Team: *t, Members: membersByTeam[t.ID]}
		if tm.Members == nil {
			tm.Members = []*model.TeamMember{}
		}
		result = append(result, tm)
	}

	return result, nil
}

// Create stores a team with a fresh invite code and makes the caller its
// admin.
func (s *TeamService) Create(ctx context.Context, userID string, in TeamInput) (*model.Team, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	in.Name = validation.NormalizeName(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	team := &model.Team{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
	}

	var err error
	for range inviteCodeAttempts {
		team.InviteCode, err = GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}

		err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
			teams := s.teamRepository.WithTx(tx)
			if err := teams.Create(ctx, team); err != nil {
				return err
			}

			return teams.AddMember(ctx, &model.TeamMember{
				ID:       uuid.NewString(),
				TeamID:   team.ID,
				UserID:   userID,
				Role:     model.TeamRoleAdmin,
				JoinedAt: now,
			})
		})
		if !errors.Is(err, repository.ErrDuplicateInviteCode) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.cache.Invalidate("teams")
	return team, nil
}

// Join adds the caller to the team owning code. Codes match regardless of
// case.
func (s *TeamService) Join(ctx context.Context, userID, code string) (*model.Team, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	team, err := s.teamRepository.ByInviteCode(ctx, code)
	if errors.Is(err, repository.ErrTeamNotFound) {
		return nil, ErrInvalidInviteCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	err = s.teamRepository.AddMember(ctx, &model.TeamMember{
		ID:       uuid.NewString(),
		TeamID:   team.ID,
		UserID:   userID,
		Role:     model.TeamRoleMember,
		JoinedAt: s.now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicateMember) {
		return nil, ErrAlreadyMember
	}
	if err != nil {
		return nil, fmt.Errorf("failed to join team: %w", err)
	}

	s.invalidate(team.ID)
	return team, nil
}

func (s *TeamService) Leave(ctx context.Context, userID, teamID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	err := s.teamRepository.RemoveMember(ctx, teamID, userID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return ErrNotTeamMember
	}
	if err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}

	s.invalidate(teamID)
	s.cache.Invalidate("goals")
	return nil
}

// Delete removes the team with its memberships, goals and team categories.
// Only team admins may do this.
func (s *TeamService) Delete(ctx context.Context, userID, teamID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	member, err := s.teamRepository.Member(ctx, teamID, userID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return ErrNotTeamMember
	}
	if err != nil {
		return fmt.Errorf("failed to check team membership: %w", err)
	}
	if member.Role != model.TeamRoleAdmin {
		return ErrNotTeamAdmin
	}

	err = s.teamRepository.Delete(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	s.invalidate(teamID)
	s.cache.Invalidate("goals")
	s.cache.Invalidate("goal")
	s.cache.Invalidate("categories", teamID)
	return nil
}

func (s *TeamService) invalidate(teamID string) {
	s.cache.Invalidate("teams")
	s.cache.Invalidate("team", teamID)
}
