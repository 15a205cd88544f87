// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/hemoloc/hemoloc/store"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type snapshotCmdOptions struct {
	originOptions
	DBPath string
}

var snapshotOptions = &snapshotCmdOptions{}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Guarda os resultados de buscas numa base DuckDB",
	Long: `
Executa uma busca e guarda o resultado na base indicada por --db. Sem --lat/--lon
nem --address, lê coordenadas "lat,lon" de stdin, uma por linha.

$ printf -- '-23.5505,-46.6333\n-22.9068,-43.1729\n' | hemoloc snapshot --db hemoloc.duckdb
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, err := openSnapshots()
		if err != nil {
			return err
		}
		defer db.Close()

		searcher := newSearcher()
		ctx := cmd.Context()

		if snapshotOptions.given(cmd) {
			origin, err := snapshotOptions.resolve(ctx)
			if err != nil {
				return err
			}

			return snapshot(ctx, searcher, repo, origin)
		}

		if isTerminal(os.Stdin) {
			fmt.Fprintln(os.Stderr, "Ingresse coordenadas lat,lon, uma por linha…")
		}

		return snapshotFrom(ctx, os.Stdin, searcher, repo)
	},
}

// snapshotFrom snapshots every valid origin read from r. Lines that do not
// parse are reported in the returned error but do not stop the batch.
func snapshotFrom(ctx context.Context, r io.Reader, s *facility.Searcher, repo store.SnapshotRepository) error {
	origins, parseErr := readOrigins(r)
	if parseErr != nil {
		log.Printf("⚠️  Skipping unreadable input: %v", parseErr)
	}

	return errors.Join(parseErr, snapshotBatch(ctx, s, repo, origins))
}

// openSnapshots opens the --db database and makes sure the schema exists.
func openSnapshots() (*sql.DB, store.SnapshotRepository, error) {
	db, err := sql.Open("duckdb", snapshotOptions.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", snapshotOptions.DBPath, err)
	}

	repo := store.NewSnapshotRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, err
	}

	return db, repo, nil
}

func snapshot(ctx context.Context, s *facility.Searcher, repo store.SnapshotRepository, origin spatial.Point) error {
	facilities, err := s.Search(ctx, origin)
	if err != nil {
		return err
	}

	id, err := repo.SaveSnapshot(ctx, origin, time.Now().UTC(), facilities)
	if err != nil {
		return fmt.Errorf("saving snapshot for %v: %w", origin, err)
	}

	log.Printf("💾 Snapshot %d: %d facilities near %v", id, len(facilities), origin)

	return nil
}

func snapshotBatch(ctx context.Context, s *facility.Searcher, repo store.SnapshotRepository, origins []spatial.Point) error {
	var bar *progressbar.ProgressBar
	if isTerminal(os.Stderr) {
		bar = progressbar.NewOptions(len(origins),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("snapshots"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var errs []error

	for _, origin := range origins {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}

		if err := snapshot(ctx, s, repo, origin); err != nil {
			log.Printf("❌ %v", err)
			errs = append(errs, err)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return errors.Join(errs...)
}

// parseOrigin parses a "lat,lon" line.
func parseOrigin(line string) (spatial.Point, error) {
	latStr, lonStr, ok := strings.Cut(line, ",")
	if !ok {
		return spatial.Point{}, fmt.Errorf("expected lat,lon: %q", line)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("parsing latitude %q: %w", latStr, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("parsing longitude %q: %w", lonStr, err)
	}

	p := spatial.Point{Lat: lat, Lng: lon}
	if !p.Valid() {
		return spatial.Point{}, fmt.Errorf("%w: %v", facility.ErrInvalidCoordinate, p)
	}

	return p, nil
}

// readOrigins reads one origin per line, skipping blanks and # comments.
func readOrigins(r io.Reader) ([]spatial.Point, error) {
	var (
		origins []spatial.Point
		errs    []error
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := parseOrigin(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))

			continue
		}

		origins = append(origins, p)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading input: %w", err))
	}

	return origins, errors.Join(errs...)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	snapshotOptions.register(snapshotCmd)
	snapshotCmd.PersistentFlags().StringVar(&snapshotOptions.DBPath, "db", "hemoloc.duckdb", "DuckDB database file")
	rootCmd.AddCommand(snapshotCmd)
}
