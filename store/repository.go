// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package store keeps search snapshots in DuckDB so result sets can be
// compared over time and queried spatially through H3 cells.
package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/uber/h3-go/v4"
)

// H3Resolution is the cell resolution stored for every facility (~0.7 km²).
const H3Resolution = 8

// Snapshot describes one stored search.
type Snapshot struct {
	ID          int64         `json:"id"`
	Origin      spatial.Point `json:"origin"`
	TakenAt     time.Time     `json:"taken_at"`
	ResultCount int           `json:"result_count"`
}

// StoredFacility is a facility as recorded in a snapshot.
type StoredFacility struct {
	facility.Facility
	SnapshotID int64 `json:"snapshot_id"`
	Rank       int   `json:"rank"`
	H3Cell     int64 `json:"h3_cell"`
}

// SnapshotRepository persists search results.
type SnapshotRepository interface {
	CreateSchema() error
	SaveSnapshot(ctx context.Context, origin spatial.Point, takenAt time.Time, facilities []facility.Facility) (int64, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	SnapshotFacilities(ctx context.Context, snapshotID int64) ([]StoredFacility, error)
	FacilitiesNear(ctx context.Context, p spatial.Point, rings int) ([]StoredFacility, error)
}

type sqlSnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository returns a DuckDB backed repository.
func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &sqlSnapshotRepository{db: db}
}

// CellOf returns the H3 cell of p at H3Resolution.
func CellOf(p spatial.Point) (int64, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), H3Resolution)
	if err != nil {
		return 0, fmt.Errorf("converting %v to h3 cell: %w", p, err)
	}

	return int64(cell), nil
}

func (r *sqlSnapshotRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS snapshots_seq START 1;

		CREATE TABLE IF NOT EXISTS snapshots (
			id BIGINT PRIMARY KEY DEFAULT nextval('snapshots_seq'),
			origin_lat DOUBLE NOT NULL,
			origin_lng DOUBLE NOT NULL,
			taken_at TIMESTAMP NOT NULL,
			result_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS facilities (
			snapshot_id BIGINT NOT NULL,
			rank INTEGER NOT NULL,
			facility_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			type VARCHAR NOT NULL,
			address VARCHAR NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			distance_km DOUBLE NOT NULL,
			h3_cell BIGINT NOT NULL,
			PRIMARY KEY (snapshot_id, rank)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating snapshot schema: %w", err)
	}

	return nil
}

func (r *sqlSnapshotRepository) SaveSnapshot(
	ctx context.Context,
	origin spatial.Point,
	takenAt time.Time,
	facilities []facility.Facility,
) (id int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO snapshots (origin_lat, origin_lng, taken_at, result_count)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, origin.Lat, origin.Lng, takenAt.UTC(), len(facilities)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO facilities (
			snapshot_id, rank, facility_id, name, type, address,
			lat, lng, distance_km, h3_cell
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing facility insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range facilities {
		cell, err := CellOf(f.Point)
		if err != nil {
			return 0, err
		}

		if _, err := stmt.ExecContext(ctx,
			id, i, f.ID, f.Name, string(f.Type), f.Address,
			f.Point.Lat, f.Point.Lng, f.DistanceKm, cell,
		); err != nil {
			return 0, fmt.Errorf("inserting facility %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}

	return id, nil
}

func (r *sqlSnapshotRepository) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, origin_lat, origin_lng, taken_at, result_count
		FROM snapshots
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot

	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Origin.Lat, &s.Origin.Lng, &s.TakenAt, &s.ResultCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}

		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

const facilityColumns = `
	snapshot_id, rank, facility_id, name, type, address,
	lat, lng, distance_km, h3_cell
`

func scanFacilities(rows *sql.Rows) ([]StoredFacility, error) {
	defer rows.Close()

	var result []StoredFacility

	for rows.Next() {
		var (
			f   StoredFacility
			typ string
		)

		if err := rows.Scan(
			&f.SnapshotID, &f.Rank, &f.ID, &f.Name, &typ, &f.Address,
			&f.Point.Lat, &f.Point.Lng, &f.DistanceKm, &f.H3Cell,
		); err != nil {
			return nil, fmt.Errorf("scanning facility: %w", err)
		}

		f.Type = facility.Type(typ)
		result = append(result, f)
	}

	return result, rows.Err()
}

func (r *sqlSnapshotRepository) SnapshotFacilities(ctx context.Context, snapshotID int64) ([]StoredFacility, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE snapshot_id = ? ORDER BY rank`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %d: %w", snapshotID, err)
	}

	return scanFacilities(rows)
}

// FacilitiesNear returns the most recent record of every stored facility whose
// cell lies within rings H3 rings of p's cell. DistanceKm is recomputed from p
// and results are sorted by it.
func (r *sqlSnapshotRepository) FacilitiesNear(ctx context.Context, p spatial.Point, rings int) ([]StoredFacility, error) {
	origin, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), H3Resolution)
	if err != nil {
		return nil, fmt.Errorf("converting %v to h3 cell: %w", p, err)
	}

	disk, err := h3.GridDisk(origin, rings)
	if err != nil {
		return nil, fmt.Errorf("computing grid disk: %w", err)
	}

	args := make([]any, 0, len(disk))
	placeholders := make([]string, 0, len(disk))

	for _, c := range disk {
		args = append(args, int64(c))
		placeholders = append(placeholders, "?")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+facilityColumns+`
		FROM facilities
		WHERE h3_cell IN (`+strings.Join(placeholders, ", ")+`)
		QUALIFY row_number() OVER (PARTITION BY facility_id ORDER BY snapshot_id DESC) = 1
		ORDER BY facility_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying facilities near %v: %w", p, err)
	}

	result, err := scanFacilities(rows)
	if err != nil {
		return nil, err
	}

	// distance_km is relative to each snapshot's origin, recompute for p
	for i := range result {
		result[i].DistanceKm = spatial.DistanceKm(p, result[i].Point)
	}

	slices.SortStableFunc(result, func(a, b StoredFacility) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	return result, nil
}
