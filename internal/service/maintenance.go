package service

import (
	"context"
	"database/sql"
	"fmt"

	"revdash/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the TUI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all user data, then reseeds the baseline streams and client
// groups so imports keep working without a restart.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"revenue_entries",
			"products",
			"clients",
			"client_groups",
			"revenue_streams",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if err := database.SeedDefaults(ctx, s.DB); err != nil {
		return fmt.Errorf("reseed defaults: %w", err)
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
