package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/monish1402/insurance-llm-system1/pkg/config"
)

// ingestWatchCmd represents the ingest watch command
var ingestWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and ingest documents dropped into it",
	Long: `Watch a directory and ingest documents dropped into it.

Files with an allowed extension that appear in the watched directory are
run through the full processing pipeline. Files are picked up on the
write event, so copy them into place atomically (write elsewhere and
rename) to avoid ingesting partial content.

Example:
  insurancectl ingest watch /var/lib/insurance/inbox`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchDirectory(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch directory: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	ingestCmd.AddCommand(ingestWatchCmd)
}

func watchDirectory(cmd *cobra.Command, dir string) error {
	documentType, _ := cmd.Flags().GetString("document-type")
	if documentType == "" {
		documentType = "policy"
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg, 1)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for documents (type: %s)\n", dir, documentType)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Write events fire repeatedly while a file is being copied; only
	// ingest a path once it has been quiet for a debounce interval.
	seen := map[string]time.Time{}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(event.Name), "."))
			if !cfg.IsFileTypeAllowed(ext) {
				continue
			}
			if last, ok := seen[event.Name]; ok && time.Since(last) < 2*time.Second {
				seen[event.Name] = time.Now()
				continue
			}
			seen[event.Name] = time.Now()

			fmt.Printf("[%s] Ingesting %s...\n", time.Now().Format(time.RFC3339), event.Name)
			doc, err := ingestFile(cmd.Context(), a, event.Name, documentType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error ingesting %s: %v\n", event.Name, err)
				continue
			}
			fmt.Printf("Ingested %s: %s (%s)\n", event.Name, doc.ProcessingStatus, doc.ID)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
