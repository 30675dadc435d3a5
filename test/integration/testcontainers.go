package integration

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/config"
	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/report"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/endpoints"
	"github.com/bguard/bguard-suite/pkg/session"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	SessionKey    []byte
	LLM           *LLMStub
	ReportDir     string
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
	Cancel        context.CancelFunc
}

// NewTestContext starts PostgreSQL in a container, migrates it and starts
// a server against it.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set BGUARD_BINARY to the path of a bguardctl binary
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	binaryPath := os.Getenv("BGUARD_BINARY")
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("BGUARD_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bguard_test"),
		tcpostgres.WithUsername("bguard"),
		tcpostgres.WithPassword("bguard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

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
	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	reportDir, err := os.MkdirTemp("", "bguard-reports-")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		SessionKey:  []byte("integration-session-signing-key!!"),
		LLM:         NewLLMStub(),
		ReportDir:   reportDir,
	}

	port, err := freePort()
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	tc.ServerURL = fmt.Sprintf("http://127.0.0.1:%s", port)

	if binaryPath != "" {
		err = tc.startBinary(binaryPath, port)
	} else {
		err = tc.startInlineServer(port)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// serverConfig is the configuration both modes run with.
func (tc *TestContext) serverConfig() (*config.BGuardConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	insecure := false
	cfg.CookieSecure = &insecure
	cfg.LoginRateLimit = 1000
	cfg.AIRateLimit = 1000
	cfg.AIProvider = llm.ProviderAnthropic
	cfg.AIBaseURL = tc.LLM.URL
	cfg.ReportStorage = "local"
	cfg.ReportDir = tc.ReportDir
	return cfg, cfg.Validate()
}

// startInlineServer starts the server in-process (no binary needed)
func (tc *TestContext) startInlineServer(port string) error {
	cfg, err := tc.serverConfig()
	if err != nil {
		return err
	}

	audit.SetStore(audit.NewStoreWithDB(tc.RawDB))

	tokens, err := session.NewTokens(tc.SessionKey)
	if err != nil {
		return err
	}

	s := server.NewServer(tc.DB, cfg, tokens, "127.0.0.1", port)

	prompts, err := llm.LoadPrompts("")
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(llm.Config{
		Provider: cfg.AIProvider,
		Model:    cfg.AIModel,
		BaseURL:  cfg.AIBaseURL,
		APIKey:   "integration",
	})
	if err != nil {
		return err
	}
	s.Analyzer = llm.NewAnalyzer(provider, prompts, session.NewLimiter(cfg.AIRateLimit))

	storage, err := report.NewLocalStorage(tc.ReportDir)
	if err != nil {
		return err
	}
	s.Reports = report.NewGenerator(report.NewNativeRenderer(), storage, nil)

	endpoints.RegisterAll(s)

	go func() {
		if err := s.Start(); err != nil {
			log.Printf("Inline server stopped: %v", err)
		}
	}()

	tc.InlineServer = s
	tc.Cancel = func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}
	return nil
}

// startBinary starts the bguardctl server binary
func (tc *TestContext) startBinary(binaryPath, port string) error {
	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since the schema is already migrated
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"BGUARD_SESSION_KEY="+base64.StdEncoding.EncodeToString(tc.SessionKey),
		"BGUARD_AI_API_KEY=integration",
		"BGUARD_AI_PROVIDER="+llm.ProviderAnthropic,
		"BGUARD_AI_BASE_URL="+tc.LLM.URL,
		"BGUARD_AI_RATE_LIMIT=1000",
		"BGUARD_LOGIN_RATE_LIMIT=1000",
		"BGUARD_COOKIE_SECURE=false",
		"BGUARD_REPORT_STORAGE=local",
		"BGUARD_REPORT_DIR="+tc.ReportDir,
		"BGUARD_CONFIG_PATH="+tc.ReportDir,
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

// freePort asks the kernel for an unused TCP port.
func freePort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer func() { _ = l.Close() }()
	_, port, err := net.SplitHostPort(l.Addr().String())
	return port, err
}

// waitForServer polls the status endpoint until the server answers 200 or
// the timeout passes.
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
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
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.LLM != nil {
		tc.LLM.Close()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.ReportDir != "" {
		_ = os.RemoveAll(tc.ReportDir)
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations applies every up migration with golang-migrate, the same
// way bguardctl db migrate does.
func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
