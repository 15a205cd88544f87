// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/hemoloc/hemoloc/store"
	"github.com/spf13/cobra"
)

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista as buscas guardadas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, err := openSnapshots()
		if err != nil {
			return err
		}
		defer db.Close()

		return listSnapshots(cmd.Context(), os.Stdout, repo)
	},
}

var snapshotShowID int64

var snapshotShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Mostra os pontos de uma busca guardada",
	Example: `  hemoloc snapshot show --id 3`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, err := openSnapshots()
		if err != nil {
			return err
		}
		defer db.Close()

		return showSnapshot(cmd.Context(), os.Stdout, repo, snapshotShowID)
	},
}

type snapshotNearCmdOptions struct {
	Point spatial.Point
	Rings int
}

var snapshotNearOptions = &snapshotNearCmdOptions{}

var snapshotNearCmd = &cobra.Command{
	Use:   "near",
	Short: "Busca pontos já guardados perto de uma coordenada, sem consultar a Overpass API",
	Long: `
Procura, entre todas as buscas guardadas, a versão mais recente de cada ponto
cuja célula H3 (resolução 8) está a até --rings anéis da célula da coordenada.

$ hemoloc snapshot near --lat -23.5505 --lon -46.6333 --rings 3
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !snapshotNearOptions.Point.Valid() {
			return fmt.Errorf("%w: %v", facility.ErrInvalidCoordinate, snapshotNearOptions.Point)
		}

		if snapshotNearOptions.Rings < 0 {
			return fmt.Errorf("--rings must not be negative: %d", snapshotNearOptions.Rings)
		}

		db, repo, err := openSnapshots()
		if err != nil {
			return err
		}
		defer db.Close()

		return nearSnapshots(cmd.Context(), os.Stdout, repo, snapshotNearOptions.Point, snapshotNearOptions.Rings)
	},
}

func listSnapshots(ctx context.Context, w io.Writer, repo store.SnapshotRepository) error {
	snapshots, err := repo.ListSnapshots(ctx)
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(w, "Nenhuma busca guardada.")

		return nil
	}

	for _, s := range snapshots {
		fmt.Fprintf(w, "%d\t%s\t%v\t%d\n", s.ID, s.TakenAt.Format("2006-01-02 15:04:05"), s.Origin, s.ResultCount)
	}

	return nil
}

func facilitiesOf(stored []store.StoredFacility) []facility.Facility {
	facilities := make([]facility.Facility, 0, len(stored))
	for _, s := range stored {
		facilities = append(facilities, s.Facility)
	}

	return facilities
}

func showSnapshot(ctx context.Context, w io.Writer, repo store.SnapshotRepository, id int64) error {
	stored, err := repo.SnapshotFacilities(ctx, id)
	if err != nil {
		return err
	}

	printTable(w, facilitiesOf(stored))

	return nil
}

func nearSnapshots(ctx context.Context, w io.Writer, repo store.SnapshotRepository, p spatial.Point, rings int) error {
	stored, err := repo.FacilitiesNear(ctx, p, rings)
	if err != nil {
		return err
	}

	printTable(w, facilitiesOf(stored))

	return nil
}

func init() {
	snapshotShowCmd.Flags().Int64Var(&snapshotShowID, "id", 0, "snapshot id, as printed by snapshot list")
	_ = snapshotShowCmd.MarkFlagRequired("id")

	snapshotNearCmd.Flags().Float64Var(&snapshotNearOptions.Point.Lat, "lat", 0, "latitude")
	snapshotNearCmd.Flags().Float64Var(&snapshotNearOptions.Point.Lng, "lon", 0, "longitude")
	snapshotNearCmd.Flags().IntVar(&snapshotNearOptions.Rings, "rings", 2, "H3 rings around the coordinate's cell")
	_ = snapshotNearCmd.MarkFlagRequired("lat")
	_ = snapshotNearCmd.MarkFlagRequired("lon")

	snapshotCmd.AddCommand(snapshotListCmd, snapshotShowCmd, snapshotNearCmd)
}
