package postgresql

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration in file name order. Statements are idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx, string(script)); err != nil {
			return database.WrapStoreError("apply migration "+name, err)
		}
		slog.Info("Migration applied", "file", name)
	}
	return nil
}
