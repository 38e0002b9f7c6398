package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdptw-plan-service/internal/domain"
)

// SQLite-backed implementation of the ProblemRepository port. Rows come back
// ordered by their seq column so repeated loads produce identical entity
// sequences.
type SqliteProblemRepository struct{ DB *sql.DB }

func NewSqliteProblemRepository(db *sql.DB) *SqliteProblemRepository {
	return &SqliteProblemRepository{DB: db}
}

func (s *SqliteProblemRepository) LoadProblem(ctx context.Context) (domain.ProblemData, error) {
	if s.DB == nil {
		return domain.ProblemData{}, errors.New("sqlite problem repository: DB is nil")
	}

	var data domain.ProblemData
	var err error

	if data.Locations, err = s.loadLocations(ctx); err != nil {
		return domain.ProblemData{}, err
	}
	if data.Vehicles, err = s.loadVehicles(ctx); err != nil {
		return domain.ProblemData{}, err
	}
	if data.Orders, err = s.loadOrders(ctx); err != nil {
		return domain.ProblemData{}, err
	}

	return data, nil
}

func (s *SqliteProblemRepository) loadLocations(ctx context.Context) ([]domain.Location, error) {
	query := `
	SELECT id, lon, lat
	FROM locations
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load locations: query locations table: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0, 64)
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.Coord.Lon, &loc.Coord.Lat); err != nil {
			return nil, fmt.Errorf("load locations: scan row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load locations: row iteration: %w", err)
	}

	return locations, nil
}

func (s *SqliteProblemRepository) loadVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	query := `
	SELECT
		id, origin, destination, earliest_start, latest_end,
		max_distance_km, max_duration_hours, tags, speed_kph, max_load, unit_cost
	FROM vehicles
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		var start, end, tags string
		if err := rows.Scan(
			&v.ID, &v.Origin, &v.Destination, &start, &end,
			&v.MaxDistanceKm, &v.MaxDurationHours, &tags, &v.SpeedKph, &v.MaxLoad, &v.UnitCost,
		); err != nil {
			return nil, fmt.Errorf("load vehicles: scan row: %w", err)
		}

		if v.EarliestStart, err = parseInstant(start); err != nil {
			return nil, fmt.Errorf("load vehicles: vehicle %q earliest_start: %w", v.ID, err)
		}
		if v.LatestEnd, err = parseInstant(end); err != nil {
			return nil, fmt.Errorf("load vehicles: vehicle %q latest_end: %w", v.ID, err)
		}
		v.Tags = splitTags(tags)

		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *SqliteProblemRepository) loadOrders(ctx context.Context) ([]domain.Order, error) {
	query := `
	SELECT
		id, tags, quantity,
		pickup_location, pickup_service_sec, pickup_start, pickup_end,
		delivery_location, delivery_service_sec, delivery_start, delivery_end
	FROM orders
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 64)
	for rows.Next() {
		var o domain.Order
		var tags, pStart, pEnd, dStart, dEnd string
		if err := rows.Scan(
			&o.ID, &tags, &o.Quantity,
			&o.PickupLocation, &o.PickupServiceSec, &pStart, &pEnd,
			&o.DeliveryLocation, &o.DeliveryServiceSec, &dStart, &dEnd,
		); err != nil {
			return nil, fmt.Errorf("load orders: scan row: %w", err)
		}

		var err error
		if o.PickupStart, err = parseInstant(pStart); err != nil {
			return nil, fmt.Errorf("load orders: order %q pickup_start: %w", o.ID, err)
		}
		if o.PickupEnd, err = parseInstant(pEnd); err != nil {
			return nil, fmt.Errorf("load orders: order %q pickup_end: %w", o.ID, err)
		}
		if o.DeliveryStart, err = parseInstant(dStart); err != nil {
			return nil, fmt.Errorf("load orders: order %q delivery_start: %w", o.ID, err)
		}
		if o.DeliveryEnd, err = parseInstant(dEnd); err != nil {
			return nil, fmt.Errorf("load orders: order %q delivery_end: %w", o.ID, err)
		}
		o.Tags = splitTags(tags)

		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load orders: row iteration: %w", err)
	}

	return orders, nil
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
