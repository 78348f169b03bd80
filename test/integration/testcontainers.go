package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/monish1402/insurance-llm-system1/pkg/cache"
	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/decision"
	"github.com/monish1402/insurance-llm-system1/pkg/extract"
	"github.com/monish1402/insurance-llm-system1/pkg/processor"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/endpoints"
	"github.com/monish1402/insurance-llm-system1/pkg/server/middleware"
	gormstore "github.com/monish1402/insurance-llm-system1/pkg/server/store/gorm"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string // Connection string for the test database
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server // For inline mode
	Processor     *processor.Service
}

// NewTestContext creates a new test context with a PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set INSURANCE_BINARY to the path of the insurancectl binary
//   - Inline mode: Set INSURANCE_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	// Find project root and migrations directory
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	// Check mode
	inlineMode := os.Getenv("INSURANCE_INLINE") == "1"
	binaryPath := os.Getenv("INSURANCE_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either INSURANCE_BINARY or INSURANCE_INLINE=1 is required.\n\nBinary mode:\n  go build -o insurancectl ./cmd/insurancectl\n  INTEGRATION_TEST=1 INSURANCE_BINARY=$(pwd)/insurancectl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 INSURANCE_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		// Verify the binary exists
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("INSURANCE_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("insurance_test"),
		tcpostgres.WithUsername("insurance"),
		tcpostgres.WithPassword("insurance"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	// Get connection string for the host (not container network)
	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://insurance:insurance@%s:%s/insurance_test?sslmode=disable", host, port.Port())

	// Connect with GORM for test setup/assertions
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get raw SQL connection for migrations
	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	// Run migrations
	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	serverPort := 18080 // Use a fixed port for testing
	serverURL := fmt.Sprintf("http://127.0.0.1:%d", serverPort)

	tc := &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if inlineMode {
		// Start inline server
		if err := tc.startInlineServer(db, connStr, serverPort); err != nil {
			_ = pgContainer.Terminate(ctx)
			return nil, fmt.Errorf("failed to start inline server: %w", err)
		}
	} else {
		// Start the actual binary
		if err := tc.startBinary(binaryPath, connStr, serverPort); err != nil {
			_ = pgContainer.Terminate(ctx)
			return nil, fmt.Errorf("failed to start server binary: %w", err)
		}
	}

	// Wait for server to be ready
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// startInlineServer starts the server in-process (no binary needed). The
// OpenAI-backed features stay disabled so the pipeline runs without network
// access; search falls back to keyword ranking.
func (tc *TestContext) startInlineServer(db *gorm.DB, dbURL string, port int) error {
	uploadDir, err := os.MkdirTemp("", "insurance-uploads-")
	if err != nil {
		return err
	}

	cfg := &config.Config{
		APIHost:                  "127.0.0.1",
		APIPort:                  port,
		DatabaseURL:              dbURL,
		UploadDir:                uploadDir,
		MaxFileSize:              10 << 20,
		AllowedFileTypes:         []string{"pdf", "docx", "txt"},
		ChunkSize:                1000,
		ChunkOverlap:             200,
		SimilarityThreshold:      0.3,
		MaxSearchResults:         10,
		SecretKey:                "integration-test-secret",
		AccessTokenExpireMinutes: 30,
	}

	embCache, err := cache.New("")
	if err != nil {
		return err
	}

	documents := gormstore.NewDocumentsStore(db)
	chunks := gormstore.NewChunksStore(db)
	sessions := gormstore.NewSessionsStore(db)

	extractor := extract.NewExtractor(cfg.ChunkSize, cfg.ChunkOverlap)
	proc := processor.NewService(extractor, nil, embCache, documents, chunks, 1)

	ctx, cancel := context.WithCancel(context.Background())
	proc.Start(ctx)

	s := server.NewServer(cfg, db)
	s.DocumentsStore = documents
	s.ChunksStore = chunks
	s.QueryLogStore = gormstore.NewQueryLogStore(db)
	s.SessionsStore = sessions
	s.HealthStore = gormstore.NewHealthStore(db)
	s.Processor = proc
	s.Search = search.NewService(nil, embCache, chunks, documents, cfg.SimilarityThreshold)
	s.Decider = decision.NewEngine(nil)
	s.Cache = embCache
	s.JWTMiddleware = middleware.NewJWTAuthenticator(cfg.SecretKey, sessions, false)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	tc.InlineServer = s
	tc.Processor = proc
	tc.Cancel = cancel
	return nil
}

// startBinary starts the insurancectl server binary
func (tc *TestContext) startBinary(binaryPath, dbURL string, port int) error {
	uploadDir, err := os.MkdirTemp("", "insurance-uploads-")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", fmt.Sprintf("%d", port))
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"SECRET_KEY=integration-test-secret",
		"UPLOAD_DIR="+uploadDir,
		"REQUIRE_AUTH=false",
		"OPENAI_API_KEY=",
		"REDIS_URL=",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start binary: %w", err)
	}

	tc.ServerProcess = cmd
	tc.Cancel = cancel
	return nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/api/v1/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.Processor != nil {
		tc.Processor.Stop()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	// Try relative paths from test directory
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes the up migrations in order
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(file), err)
		}
	}

	return nil
}
