package migrate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

var migrationTmpl = template.Must(template.New("migration").Parse(`-- {{.Name}}
-- created {{.Created}}

-- +goose Up
-- +goose StatementBegin
-- TODO: write the {{.Name}} schema change
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- TODO: undo {{.Name}}
-- +goose StatementEnd
`))

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createAt(dir, name, time.Now().UTC())
}

func createAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := sanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.Format("20060102150405"), safe))
	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}

	var buf bytes.Buffer
	if err := migrationTmpl.Execute(&buf, map[string]string{
		"Name":    safe,
		"Created": now.Format(time.RFC3339),
	}); err != nil {
		return "", fmt.Errorf("render migration: %w", err)
	}
	if err := os.WriteFile(fullpath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
