// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugQueryPoint spatial.Point

var debugQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Imprime a consulta Overpass QL para uma coordenada",
	Long: `Imprime a consulta que seria enviada à Overpass API, útil para colar em
https://overpass-turbo.eu.

$ hemoloc debug query --lat -23.5505 --lon -46.6333`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !debugQueryPoint.Valid() {
			return fmt.Errorf("%w: %v", facility.ErrInvalidCoordinate, debugQueryPoint)
		}

		fmt.Print(overpass.BuildQuery(debugQueryPoint))

		return nil
	},
}

var debugClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classifica nomes de estabelecimentos",
	Long: `Lê um nome por linha e imprime o tipo inferido apenas pelo nome.

$ echo "Hemocentro de São Paulo" | hemoloc debug classify
Hemocentro de São Paulo	hemocenter	Hemocentro`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if isTerminal(os.Stdin) {
			fmt.Fprintln(os.Stderr, "Ingresse nomes a classificar, um por linha…")
		}

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			name := scanner.Text()
			t := facility.Classify(name, nil)
			fmt.Printf("%s\t%s\t%s\n", name, t, t.Label())
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func init() {
	debugQueryCmd.Flags().Float64Var(&debugQueryPoint.Lat, "lat", 0, "latitude")
	debugQueryCmd.Flags().Float64Var(&debugQueryPoint.Lng, "lon", 0, "longitude")
	_ = debugQueryCmd.MarkFlagRequired("lat")
	_ = debugQueryCmd.MarkFlagRequired("lon")

	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugQueryCmd)
	debugCmd.AddCommand(debugClassifyCmd)
}
