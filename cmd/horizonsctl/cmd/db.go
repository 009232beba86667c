package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/horizons-app/horizons/internal/config"
	"github.com/horizons-app/horizons/internal/db"
)

// open connects using DB_DRIVER and DB_CONNECTION from the environment.
func open() (*sqlx.DB, string, error) {
	driver, connection := config.LoadDatabase()

	database, err := db.Init(driver, connection)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return database, driver, nil
}
