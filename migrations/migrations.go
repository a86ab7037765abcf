// Package migrations embeds the SQL schema and applies it with a small runner.
//
// Files are named NNNNNN_name.up.sql / NNNNNN_name.down.sql and run in name order.
// Applied migrations are tracked in schema_migrations together with the batch
// they ran in, so Rollback undoes the whole last batch.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const trackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    name   VARCHAR(255) PRIMARY KEY,
    batch  INT          NOT NULL,
    run_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

// Migration is one up/down pair.
type Migration struct {
	Name string
	Up   string
	Down string
}

// Load reads the embedded migrations sorted by name.
func Load() ([]Migration, error) {
	return load(files)
}

func load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byName := map[string]*Migration{}
	for _, e := range entries {
		var name, direction string
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			name, direction = strings.TrimSuffix(e.Name(), ".up.sql"), "up"
		case strings.HasSuffix(e.Name(), ".down.sql"):
			name, direction = strings.TrimSuffix(e.Name(), ".down.sql"), "down"
		default:
			continue
		}

		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}

		m, ok := byName[name]
		if !ok {
			m = &Migration{Name: name}
			byName[name] = m
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	out := make([]Migration, 0, len(byName))
	for _, m := range byName {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s has no up file", m.Name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Pending returns migrations not present in applied, keeping order.
func Pending(all []Migration, applied map[string]bool) []Migration {
	var pending []Migration
	for _, m := range all {
		if !applied[m.Name] {
			pending = append(pending, m)
		}
	}
	return pending
}
