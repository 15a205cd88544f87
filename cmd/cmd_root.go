// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/utils/httputils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

// overpassOptions are shared by every command that searches.
type overpassOptions struct {
	Endpoint      string
	HTTPTrace     bool
	HTTPBodyTrace bool
}

var rootOptions = &overpassOptions{}

var rootCmd = &cobra.Command{
	Use:   "hemoloc",
	Short: "encontre pontos de doação de sangue perto de você",
	Long: `
hemoloc localiza hemocentros, pontos de coleta, hospitais e clínicas num raio
de 15 km de uma coordenada, consultando o OpenStreetMap através da Overpass API.
`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Ignoring .env file: %v", err)
		}

		if rootOptions.Endpoint == "" {
			rootOptions.Endpoint = os.Getenv("HEMOLOC_OVERPASS_URL")
		}
	},
}

var Version = "dev"

func userAgent() string {
	return fmt.Sprintf("hemoloc/%s (+https://github.com/hemoloc/hemoloc)", Version)
}

func newOverpassClient() *overpass.Client {
	httpClient := httputils.NewClient(httputils.ClientOptions{
		UserAgent: userAgent(),
		Trace:     rootOptions.HTTPTrace,
		TraceBody: rootOptions.HTTPBodyTrace,
	})

	return overpass.NewClient(rootOptions.Endpoint, httpClient)
}

func newSearcher() *facility.Searcher {
	return facility.NewSearcher(newOverpassClient())
}

func Execute(version string) {
	Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOptions.Endpoint, "overpass-url", "", "Overpass interpreter URL (default $HEMOLOC_OVERPASS_URL or "+overpass.DefaultEndpoint+")")
	flags.BoolVar(&rootOptions.HTTPTrace, "http-trace", false, "trace HTTP requests and responses to stderr")
	flags.BoolVar(&rootOptions.HTTPBodyTrace, "http-body-trace", false, "trace HTTP bodies too")
}
