package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func cacheDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	schema := `
	CREATE TABLE distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		km REAL NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		t.Fatalf("create table: %v", err)
	}

	return conn
}

func TestDistanceCacheRoundTrip(t *testing.T) {
	c := NewSQLDistanceCache(cacheDB(t))
	ctx := context.Background()

	err := c.PutMany(ctx, "depot", map[string]float64{"a": 12.5, "b": 30})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, "depot", []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["a"] != 12.5 || got["b"] != 30 {
		t.Errorf("values not round-tripped: %v", got)
	}
}

func TestDistanceCacheUpsert(t *testing.T) {
	c := NewSQLDistanceCache(cacheDB(t))
	ctx := context.Background()

	if err := c.PutMany(ctx, "depot", map[string]float64{"a": 10}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.PutMany(ctx, "depot", map[string]float64{"a": 11}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := c.GetMany(ctx, "depot", []string{"a"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["a"] != 11 {
		t.Errorf("expected upsert to 11, got %g", got["a"])
	}
}

func TestDistanceCacheEmptyInputs(t *testing.T) {
	c := NewSQLDistanceCache(cacheDB(t))
	ctx := context.Background()

	got, err := c.GetMany(ctx, "depot", nil)
	if err != nil {
		t.Fatalf("get with no destinations: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}

	if _, err := c.GetMany(ctx, "", []string{"a"}); err == nil {
		t.Error("empty origin should be rejected")
	}
	if err := c.PutMany(ctx, "depot", nil); err != nil {
		t.Errorf("empty put should be a no-op, got %v", err)
	}
}
