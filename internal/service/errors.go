package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/horizons-app/horizons/internal/repository"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotTeamMember     = errors.New("not a member of this team")
	ErrNotTeamAdmin      = errors.New("only team admins can do this")
	ErrAdminRequired     = errors.New("only app admins can do this")
	ErrNotGoalOwner      = errors.New("only the goal owner can change this goal")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("already a member of this team")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrGoalCreateFailed  = errors.New("goal creation failed")
	ErrInvalidWeek       = errors.New("week number must be between 1 and 52")
	ErrNotWeeklyGoal     = errors.New("goal is not a weekly goal")
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrInvalidInput      = errors.New("invalid input")
	ErrFeedbackForbidden = errors.New("feedback report belongs to another user")
)

func requireMember(ctx context.Context, teams repository.TeamRepository, teamID, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	_, err := teams.Member(ctx, teamID, userID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return ErrNotTeamMember
	}
	if err != nil {
		return fmt.Errorf("failed to check team membership: %w", err)
	}

	return nil
}

// requireAppAdmin checks the admin flag in the database on every call, so a
// revoked admin loses access immediately.
func requireAppAdmin(ctx context.Context, profiles repository.ProfileRepository, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	admin, err := profiles.IsAppAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to verify admin status: %w", err)
	}
	if !admin {
		return ErrAdminRequired
	}

	return nil
}
