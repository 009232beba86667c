package model

import "time"

type Category struct {
	ID        string    `db:"id" json:"id"`
	TeamID    *string   `db:"team_id" json:"team_id"` // nil = global category
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Icon      string    `db:"icon" json:"icon"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (c *Category) IsGlobal() bool {
	return c.TeamID == nil
}

// DefaultCategories are the global categories seeded on a fresh install.
var DefaultCategories = []Category{
	{Name: "Gezondheid", Color: "#4CAF50", Icon: "mdi-heart-pulse"},
	{Name: "Persoonlijk", Color: "#2196F3", Icon: "mdi-account"},
	{Name: "Relatie", Color: "#E91E63", Icon: "mdi-heart"},
	{Name: "Carrière", Color: "#FF9800", Icon: "mdi-briefcase"},
	{Name: "Financieel", Color: "#FFC107", Icon: "mdi-currency-eur"},
	{Name: "Creatief", Color: "#9C27B0", Icon: "mdi-palette"},
	{Name: "Sport", Color: "#00BCD4", Icon: "mdi-run"},
	{Name: "Overig", Color: "#607D8B", Icon: "mdi-dots-horizontal"},
}
