package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	versionRe = regexp.MustCompile(`^\d{14}$`)
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

const (
	markerUp         = "-- +goose Up"
	markerDown       = "-- +goose Down"
	markerBlockBegin = "-- +goose StatementBegin"
	markerBlockEnd   = "-- +goose StatementEnd"
)

// ValidateDir checks every migration in dir: file naming, unique versions and
// well formed goose annotations. A directory without migrations is an error.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		name := e.Name()

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		if err := checkFile(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}

	if len(seen) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return nil
}

func checkFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	txt := string(b)

	up := strings.Index(txt, markerUp)
	down := strings.Index(txt, markerDown)
	switch {
	case up < 0:
		return fmt.Errorf("missing %q", markerUp)
	case down < 0:
		return fmt.Errorf("missing %q", markerDown)
	case down < up:
		return fmt.Errorf("%q must come before %q", markerUp, markerDown)
	}

	// StatementBegin and StatementEnd pair up in order.
	open := false
	for _, line := range strings.Split(txt, "\n") {
		switch strings.TrimSpace(line) {
		case markerBlockBegin:
			if open {
				return fmt.Errorf("nested %q", markerBlockBegin)
			}
			open = true
		case markerBlockEnd:
			if !open {
				return fmt.Errorf("%q without %q", markerBlockEnd, markerBlockBegin)
			}
			open = false
		}
	}
	if open {
		return fmt.Errorf("unterminated %q", markerBlockBegin)
	}
	return nil
}
