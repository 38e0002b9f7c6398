package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Dialect selects the placeholder style for seed statements. The DDL and the
// upsert syntax itself are portable between SQLite and Postgres.
type Dialect int

const (
	DialectSqlite Dialect = iota
	DialectPostgres
)

// bind rewrites ? placeholders to $1..$n for Postgres, which rejects the
// question-mark form.
func (d Dialect) bind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Initialize the database schema. The seq columns preserve input order,
// which downstream model construction depends on.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		seq INTEGER NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		earliest_start TEXT NOT NULL,
		latest_end TEXT NOT NULL,
		max_distance_km REAL NOT NULL,
		max_duration_hours REAL NOT NULL,
		tags TEXT NOT NULL,
		speed_kph REAL NOT NULL,
		max_load INTEGER NOT NULL,
		unit_cost REAL NOT NULL,
		seq INTEGER NOT NULL
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		tags TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		pickup_location TEXT NOT NULL,
		pickup_service_sec INTEGER NOT NULL,
		pickup_start TEXT NOT NULL,
		pickup_end TEXT NOT NULL,
		delivery_location TEXT NOT NULL,
		delivery_service_sec INTEGER NOT NULL,
		delivery_start TEXT NOT NULL,
		delivery_end TEXT NOT NULL,
		seq INTEGER NOT NULL
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        km REAL NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	statements := []string{
		createLocationsQuery,
		createVehiclesQuery,
		createOrdersQuery,
		createDistanceCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	ID  string  `json:"id"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type VehicleSeed struct {
	ID               string   `json:"id"`
	Origin           string   `json:"origin"`
	Destination      string   `json:"destination"`
	EarliestStart    string   `json:"earliest_start"`
	LatestEnd        string   `json:"latest_end"`
	MaxDistanceKm    float64  `json:"max_distance_km"`
	MaxDurationHours float64  `json:"max_duration_hours"`
	Tags             []string `json:"tags"`
	SpeedKph         float64  `json:"speed_kph"`
	MaxLoad          int      `json:"max_load"`
	UnitCost         float64  `json:"unit_cost"`
}

type OrderSeed struct {
	ID                 string   `json:"id"`
	Tags               []string `json:"tags"`
	Quantity           int      `json:"quantity"`
	PickupLocation     string   `json:"pickup_location"`
	PickupServiceSec   int      `json:"pickup_service_sec"`
	PickupStart        string   `json:"pickup_start"`
	PickupEnd          string   `json:"pickup_end"`
	DeliveryLocation   string   `json:"delivery_location"`
	DeliveryServiceSec int      `json:"delivery_service_sec"`
	DeliveryStart      string   `json:"delivery_start"`
	DeliveryEnd        string   `json:"delivery_end"`
}

type ProblemSeed struct {
	Locations []LocationSeed `json:"locations"`
	Vehicles  []VehicleSeed  `json:"vehicles"`
	Orders    []OrderSeed    `json:"orders"`
}

// Populate the database with problem data from a JSON file. Timestamps are
// stored as the RFC3339 strings given in the file; parsing happens at load.
// Re-seeding the same ids updates the rows in place.
func SeedFromJSON(db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed problem: read %q: %w", jsonPath, err)
	}

	var data ProblemSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed problem: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed problem: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locStmt, err := tx.Prepare(dialect.bind(`
	INSERT INTO locations (id, lon, lat, seq)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		lon = EXCLUDED.lon, lat = EXCLUDED.lat, seq = EXCLUDED.seq;
	`))
	if err != nil {
		return fmt.Errorf("seed problem: prepare locations insert: %w", err)
	}
	defer locStmt.Close()

	for i, l := range data.Locations {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("seed problem: location at index %d has empty id", i)
		}
		if _, err := locStmt.Exec(l.ID, l.Lon, l.Lat, i); err != nil {
			return fmt.Errorf("seed problem: insert location %q: %w", l.ID, err)
		}
	}

	vehStmt, err := tx.Prepare(dialect.bind(`
	INSERT INTO vehicles (
		id, origin, destination, earliest_start, latest_end,
		max_distance_km, max_duration_hours, tags, speed_kph, max_load, unit_cost, seq
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		origin = EXCLUDED.origin, destination = EXCLUDED.destination,
		earliest_start = EXCLUDED.earliest_start, latest_end = EXCLUDED.latest_end,
		max_distance_km = EXCLUDED.max_distance_km,
		max_duration_hours = EXCLUDED.max_duration_hours,
		tags = EXCLUDED.tags, speed_kph = EXCLUDED.speed_kph,
		max_load = EXCLUDED.max_load, unit_cost = EXCLUDED.unit_cost,
		seq = EXCLUDED.seq;
	`))
	if err != nil {
		return fmt.Errorf("seed problem: prepare vehicles insert: %w", err)
	}
	defer vehStmt.Close()

	for i, v := range data.Vehicles {
		if strings.TrimSpace(v.ID) == "" {
			return fmt.Errorf("seed problem: vehicle at index %d has empty id", i)
		}
		if _, err := vehStmt.Exec(
			v.ID, v.Origin, v.Destination, v.EarliestStart, v.LatestEnd,
			v.MaxDistanceKm, v.MaxDurationHours, strings.Join(v.Tags, ","),
			v.SpeedKph, v.MaxLoad, v.UnitCost, i,
		); err != nil {
			return fmt.Errorf("seed problem: insert vehicle %q: %w", v.ID, err)
		}
	}

	ordStmt, err := tx.Prepare(dialect.bind(`
	INSERT INTO orders (
		id, tags, quantity,
		pickup_location, pickup_service_sec, pickup_start, pickup_end,
		delivery_location, delivery_service_sec, delivery_start, delivery_end, seq
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		tags = EXCLUDED.tags, quantity = EXCLUDED.quantity,
		pickup_location = EXCLUDED.pickup_location,
		pickup_service_sec = EXCLUDED.pickup_service_sec,
		pickup_start = EXCLUDED.pickup_start, pickup_end = EXCLUDED.pickup_end,
		delivery_location = EXCLUDED.delivery_location,
		delivery_service_sec = EXCLUDED.delivery_service_sec,
		delivery_start = EXCLUDED.delivery_start, delivery_end = EXCLUDED.delivery_end,
		seq = EXCLUDED.seq;
	`))
	if err != nil {
		return fmt.Errorf("seed problem: prepare orders insert: %w", err)
	}
	defer ordStmt.Close()

	for i, o := range data.Orders {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("seed problem: order at index %d has empty id", i)
		}
		if _, err := ordStmt.Exec(
			o.ID, strings.Join(o.Tags, ","), o.Quantity,
			o.PickupLocation, o.PickupServiceSec, o.PickupStart, o.PickupEnd,
			o.DeliveryLocation, o.DeliveryServiceSec, o.DeliveryStart, o.DeliveryEnd, i,
		); err != nil {
			return fmt.Errorf("seed problem: insert order %q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed problem: commit tx: %w", err)
	}

	return nil
}
