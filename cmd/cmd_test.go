// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/hemoloc/hemoloc/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		line     string
		expected spatial.Point
		wantErr  bool
	}{
		{"-23.5505,-46.6333", spatial.Point{Lat: -23.5505, Lng: -46.6333}, false},
		{" -22.9 , -43.2 ", spatial.Point{Lat: -22.9, Lng: -43.2}, false},
		{"-23.5505", spatial.Point{}, true},
		{"abc,1", spatial.Point{}, true},
		{"1,abc", spatial.Point{}, true},
		{"91,0", spatial.Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseOrigin(tt.line)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadOrigins(t *testing.T) {
	input := `# capitals
-23.5505,-46.6333

-22.9068,-43.1729
nope
`

	origins, err := readOrigins(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5")
	assert.Equal(t, []spatial.Point{
		{Lat: -23.5505, Lng: -46.6333},
		{Lat: -22.9068, Lng: -43.1729},
	}, origins)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ação  ", pad("ação", 6))
	assert.Equal(t, "Hemoc…", pad("Hemocentro", 6))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []facility.Facility{
		{Name: "Hemocentro SP", Type: facility.Hemocenter, Address: "Rua A", DistanceKm: 1.1},
		{Name: "Hospital B", Type: facility.Hospital, Address: facility.DefaultAddress, DistanceKm: 3},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[3], "Hemocentro SP")
	assert.Contains(t, lines[3], "    1.1")
	assert.Contains(t, lines[4], "Hospital")
	assert.Contains(t, lines[4], "    3.0")
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, nil)
	assert.Contains(t, buf.String(), "Nenhum ponto")
}

type fixedSource struct {
	elements []overpass.Element
}

func (s fixedSource) Elements(context.Context, string) ([]overpass.Element, error) {
	return s.elements, nil
}

func setupSnapshotDB(t *testing.T) store.SnapshotRepository {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := store.NewSnapshotRepository(db)
	require.NoError(t, repo.CreateSchema())

	return repo
}

func TestSnapshotFromKeepsValidLines(t *testing.T) {
	repo := setupSnapshotDB(t)
	lat, lon := -23.5505, -46.6333
	searcher := facility.NewSearcher(fixedSource{elements: []overpass.Element{{
		ID: 1, Type: "node", Lat: &lat, Lon: &lon,
		Tags: map[string]string{"name": "Hemocentro SP"},
	}}})

	err := snapshotFrom(context.Background(), strings.NewReader("-23.5505,-46.6333\nnope\n-23.56,-46.64\n"), searcher, repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	snapshots, err := repo.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, spatial.Point{Lat: -23.56, Lng: -46.64}, snapshots[1].Origin)
	assert.Equal(t, 1, snapshots[1].ResultCount)
}

func TestSnapshotReads(t *testing.T) {
	repo := setupSnapshotDB(t)
	ctx := context.Background()
	origin := spatial.Point{Lat: -23.5505, Lng: -46.6333}

	id, err := repo.SaveSnapshot(ctx, origin, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), []facility.Facility{{
		ID: "7", Name: "Hemocentro SP", Type: facility.Hemocenter, Address: "Rua A",
		Point: spatial.Point{Lat: -23.556, Lng: -46.669}, DistanceKm: 3.7,
	}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, listSnapshots(ctx, &buf, repo))
	assert.Equal(t, fmt.Sprintf("%d\t2026-10-01 09:00:00\t%v\t1\n", id, origin), buf.String())

	buf.Reset()
	require.NoError(t, showSnapshot(ctx, &buf, repo, id))
	assert.Contains(t, buf.String(), "Hemocentro SP")
	assert.Contains(t, buf.String(), "    3.7")

	buf.Reset()
	require.NoError(t, nearSnapshots(ctx, &buf, repo, spatial.Point{Lat: -23.556, Lng: -46.669}, 1))
	assert.Contains(t, buf.String(), "Hemocentro SP")
	assert.Contains(t, buf.String(), "    0.0")

	buf.Reset()
	require.NoError(t, nearSnapshots(ctx, &buf, repo, spatial.Point{Lat: -22.9068, Lng: -43.1729}, 1))
	assert.Contains(t, buf.String(), "Nenhum ponto")
}

func TestListSnapshotsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listSnapshots(context.Background(), &buf, setupSnapshotDB(t)))
	assert.Contains(t, buf.String(), "Nenhuma busca")
}
