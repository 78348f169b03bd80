package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest policy documents from the command line",
	Long: `Ingest policy documents without going through the HTTP API.

Each file is copied into the upload directory, registered in the database
and run through the full processing pipeline (extraction, chunking and
embedding) synchronously.

Example:
  insurancectl ingest policy.pdf
  insurancectl ingest --document-type claim_form form1.pdf form2.pdf`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		documentType, _ := cmd.Flags().GetString("document-type")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		a, err := newApp(cfg, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
			os.Exit(1)
		}

		failures := 0
		for _, path := range args {
			doc, err := ingestFile(cmd.Context(), a, path, documentType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failures++
				continue
			}
			fmt.Printf("%s: %s (%s)\n", path, doc.ProcessingStatus, doc.ID)
		}

		if failures > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.PersistentFlags().StringP("document-type", "t", "policy", "Document type to record")
}

func ingestFile(ctx context.Context, a *app, path, documentType string) (*model.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !a.cfg.IsFileTypeAllowed(ext) {
		return nil, fmt.Errorf("file type not allowed: %s", ext)
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	docID := uuid.New()
	storedName := docID.String() + "." + ext
	storedPath := filepath.Join(a.cfg.UploadDir, storedName)

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	dest, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(dest, src)
	if closeErr := dest.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, err
	}

	doc := &model.Document{
		ID:               docID,
		Filename:         storedName,
		OriginalFilename: filepath.Base(path),
		FilePath:         storedPath,
		FileSize:         size,
		FileType:         ext,
		DocumentType:     documentType,
		ProcessingStatus: model.StatusPending,
	}
	if err := a.documents.CreateDocument(doc); err != nil {
		_ = os.Remove(storedPath)
		return nil, err
	}

	if err := a.processor.Process(ctx, docID); err != nil {
		return nil, err
	}

	return a.documents.GetDocument(docID)
}
