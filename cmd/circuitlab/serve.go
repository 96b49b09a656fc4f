package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/cli"
	"github.com/aretw0/circuitlab/internal/presentation/tui"
	httpAdapter "github.com/aretw0/circuitlab/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API: stateless /simulate and /graph, sandbox CRUD with live simulation
events, challenge CRUD and grading with per-challenge leaderboards, /metrics and the OpenAPI document at /openapi.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		if cmd.Flags().Changed("port") {
			app.Config.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		sandboxes, closeStore, err := app.SandboxManager()
		if err != nil {
			fail("%v", err)
		}
		defer closeStore()

		catalog, err := app.Catalog(sc)
		if err != nil {
			fail("%v", err)
		}

		board, closeBoard, err := app.Leaderboard()
		if err != nil {
			fail("%v", err)
		}
		defer closeBoard()

		server, err := httpAdapter.NewServer(sc,
			httpAdapter.WithSandboxes(sandboxes),
			httpAdapter.WithCatalog(catalog),
			httpAdapter.WithLeaderboard(board),
			httpAdapter.WithGraphOptions(app.GraphOptions()...),
			httpAdapter.WithGatherer(app.Registry),
			httpAdapter.WithCORSOrigins(app.Config.Server.CORSOrigins...),
		)
		if err != nil {
			fail("%v", err)
		}

		srv := &http.Server{
			Addr:              app.Config.Server.Addr(),
			Handler:           server.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(os.Stdout, circuitlab.Version)
			cli.PrintSystemMessage(os.Stdout, "Listening on %s (store: %s)", srv.Addr, app.Config.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				fail("server error: %v", err)
			}

		case <-sc.Done():
			fmt.Printf("\nStart shutdown... Signal: %v\n", sc.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("circuitlab server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
}
