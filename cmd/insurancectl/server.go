package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/endpoints"
	"github.com/monish1402/insurance-llm-system1/pkg/server/middleware"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the insurance document processing server",
	Long: `Run the insurance document processing server

To run the server requires the environment variable DATABASE_URL. REDIS_URL
and OPENAI_API_KEY are optional; without them the embedding cache and the
LLM-backed features are disabled.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		if cmd.Flags().Changed("port") {
			cfg.APIPort, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.APIHost, _ = cmd.Flags().GetString("bind-address")
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		workers, _ := cmd.Flags().GetInt("workers")
		a, err := newApp(cfg, workers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		a.processor.Start(ctx)

		s := server.NewServer(cfg, a.db)
		s.DocumentsStore = a.documents
		s.ChunksStore = a.chunks
		s.QueryLogStore = a.queryLogs
		s.SessionsStore = a.sessions
		s.HealthStore = a.health
		s.Processor = a.processor
		s.Search = a.search
		s.Decider = a.engine
		s.Cache = a.cache
		if a.llm != nil {
			s.LLM = a.llm
		}
		s.JWTMiddleware = middleware.NewJWTAuthenticator(cfg.SecretKey, a.sessions, cfg.RequireAuth)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s...\n", cfg.ListenAddr())

		errCh := make(chan error, 1)
		go func() { errCh <- s.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
		case sig := <-sigCh:
			log.Printf("Received %s, shutting down...", sig)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}

		// Drain queued documents before stopping the workers
		a.processor.Stop()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", defaultPortInt(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Int("workers", 2, "number of document processing workers")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
