// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"
	"os"

	"github.com/hemoloc/hemoloc/api"
	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expõe a busca como API JSON",
	Long: `
Inicia um servidor HTTP com os endpoints:

  GET /api/facilities?lat=<lat>&lon=<lon>
  GET /healthz
`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		addr := serveListen
		if addr == "" {
			addr = os.Getenv("HEMOLOC_LISTEN")
		}

		if addr == "" {
			addr = "localhost:8080"
		}

		log.Printf("🩸 Listening on http://%s", addr)

		return api.NewServer(newSearcher()).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default $HEMOLOC_LISTEN or localhost:8080)")
	rootCmd.AddCommand(serveCmd)
}
