package model

import "time"

// Profile shares its id with the owning user.
type Profile struct {
	ID          string    `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url"`
	IsAppAdmin  bool      `db:"is_app_admin" json:"is_app_admin"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
