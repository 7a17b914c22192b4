package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is relative to the repository root, where the binaries run.
const DefaultDir = "pkg/migrate/migrations"

const dialect = "postgres"

// goose commands accepted by Run. Moving to a given version goes through
// ToVersion instead.
var runCommands = map[string]bool{
	"up":     true,
	"down":   true,
	"status": true,
	"redo":   true,
	"reset":  true,
}

// Run executes a goose command against the shop schema.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if err := checkTarget(db, dir); err != nil {
		return err
	}
	if !runCommands[command] {
		return fmt.Errorf("unsupported goose command %q", command)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// ToVersion moves the schema up or down until it sits at target, the
// timestamp prefix of a migration file.
func ToVersion(ctx context.Context, db *sql.DB, dir string, target string) error {
	if err := checkTarget(db, dir); err != nil {
		return err
	}
	version, err := ParseVersion(target)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current < version:
		if err := goose.UpToContext(ctx, db, dir, version); err != nil {
			return fmt.Errorf("goose up-to %d: %w", version, err)
		}
	case current > version:
		if err := goose.DownToContext(ctx, db, dir, version); err != nil {
			return fmt.Errorf("goose down-to %d: %w", version, err)
		}
	}
	return nil
}

// ParseVersion reads a YYYYMMDDHHMMSS migration version.
func ParseVersion(raw string) (int64, error) {
	if !versionRe.MatchString(raw) {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", raw)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func checkTarget(db *sql.DB, dir string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return nil
}
