package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"revdash/internal/database/repository"
)

// DefaultGroupName is the group new clients land in until reassigned.
const DefaultGroupName = "Unassigned"

// SeedDefaults ensures baseline streams and client groups exist for new
// databases. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	streamRepo := repository.NewStreamRepo(db)
	groupRepo := repository.NewGroupRepo(db)

	if existing, err := streamRepo.List(ctx); err == nil && len(existing) > 0 {
		return ensureDefaultGroup(ctx, groupRepo)
	}

	streams := []struct {
		name string
		kind string
	}{
		{"Subscriptions", repository.StreamRecurring},
		{"Licensing", repository.StreamRecurring},
		{"Services", repository.StreamOneOff},
		{"One-off Sales", repository.StreamOneOff},
	}
	for idx, s := range streams {
		st := repository.Stream{ID: SeedID("stream:" + s.name), Name: s.name, Kind: s.kind, SortOrder: idx}
		if err := streamRepo.Upsert(ctx, st); err != nil {
			return err
		}
	}

	groups := []string{DefaultGroupName, "Enterprise", "SMB", "Partners"}
	for idx, name := range groups {
		g := repository.Group{ID: SeedID("group:" + name), Name: name, SortOrder: idx}
		if err := groupRepo.Upsert(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func ensureDefaultGroup(ctx context.Context, groups *repository.GroupRepo) error {
	g, err := groups.ByName(ctx, DefaultGroupName)
	if err != nil || g != nil {
		return err
	}
	return groups.Upsert(ctx, repository.Group{ID: SeedID("group:" + DefaultGroupName), Name: DefaultGroupName, SortOrder: 0})
}

// SeedID derives a stable id for seeded rows so reseeding never duplicates.
func SeedID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
