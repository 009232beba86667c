package model

import "time"

const (
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

type Team struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	InviteCode  string    `db:"invite_code" json:"invite_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type TeamMember struct {
	ID       string    `db:"id" json:"id"`
	TeamID   string    `db:"team_id" json:"team_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`

	Profile *Profile `db:"-" json:"profile,omitempty"`
}

type TeamWithMembers struct {
	Team
	Members []*TeamMember `json:"team_members"`
}

// IsAdmin reports whether userID holds the admin role in the team.
func (t *TeamWithMembers) IsAdmin(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return m.Role == TeamRoleAdmin
		}
	}
	return false
}

func (t *TeamWithMembers) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
