package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/db"
	gormstore "github.com/monish1402/insurance-llm-system1/pkg/server/store/gorm"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage user sessions",
	Long:  `Manage user sessions.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'sessions' requires a subcommand (purge)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired user sessions",
	Long: `Delete expired user sessions from the database.

Tokens signed against a purged session stop validating, so run this
periodically to enforce session expiry server side.

Example:
  insurancectl sessions purge`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := purgeSessions(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to purge sessions: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsPurgeCmd)
}

func purgeSessions() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, Debug: cfg.Debug})
	if err != nil {
		return err
	}

	deleted, err := gormstore.NewSessionsStore(database).DeleteExpiredSessions()
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d expired session(s)\n", deleted)
	return nil
}
