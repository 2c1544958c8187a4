package server

import (
	"context"
	"fmt"

	"github.com/PhucNguyen204/cpe_engine/cpe"
	"github.com/PhucNguyen204/cpe_engine/matching"
)

const schema = `CREATE TABLE IF NOT EXISTS cpe_names (
	id SERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	part TEXT NOT NULL DEFAULT '',
	vendor TEXT NOT NULL DEFAULT '',
	product TEXT NOT NULL DEFAULT '',
	version TEXT NOT NULL DEFAULT '',
	added_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// InitSchema creates the dictionary table when missing.
func (s *AppServer) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// UpsertName writes a name into the dictionary, keyed by its canonical
// binding. Existing rows are left alone.
func (s *AppServer) UpsertName(ctx context.Context, n *cpe.Name) error {
	key := canonicalKey(n)
	part, vendor, product, version := denormalize(n)
	_, err := s.db.ExecContext(ctx, `INSERT INTO cpe_names(name, part, vendor, product, version)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name) DO NOTHING`,
		key, part, vendor, product, version)
	if err != nil {
		return fmt.Errorf("upsert name %s: %w", key, err)
	}
	return nil
}

// LoadKnownFromDB reads the whole dictionary into a fresh known set.
func (s *AppServer) LoadKnownFromDB(ctx context.Context) (*matching.Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM cpe_names ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load names: %w", err)
	}
	defer rows.Close()
	set := matching.NewSet()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		n, err := cpe.ParseName(raw)
		if err != nil {
			s.log.Warn("skipping unparsable dictionary row", "name", raw, "error", err)
			continue
		}
		set.Add(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load names: %w", err)
	}
	return set, nil
}

// canonicalKey prefers the formatted-string binding; names it cannot express
// keep their source text.
func canonicalKey(n *cpe.Name) string {
	if fs, err := n.FS(); err == nil {
		return fs
	}
	return n.String()
}

// denormalize extracts the query columns from the first element.
func denormalize(n *cpe.Name) (part, vendor, product, version string) {
	get := func(att cpe.Attribute) string {
		c := n.At(0, att)
		if c.Kind() != cpe.KindSimple {
			return ""
		}
		return c.Standard()
	}
	return get(cpe.AttPart), get(cpe.AttVendor), get(cpe.AttProduct), get(cpe.AttVersion)
}
