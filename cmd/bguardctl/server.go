package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/config"
	"github.com/bguard/bguard-suite/pkg/db"
	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/report"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/endpoints"
	"github.com/bguard/bguard-suite/pkg/session"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

const (
	minSessionKeyLength = 32
	shutdownTimeout     = 30 * time.Second
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8080
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the BGuard Suite API server",
	Long: `Run the BGuard Suite API server.

The server requires the environment variables BGUARD_SESSION_KEY and
DATABASE_URL. BGUARD_AI_API_KEY enables AI scanning.

By default, database migrations are run on startup. Use --no-migrate to skip.
The server stops gracefully on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionKey, err := sessionKeyFromEnv()
		if err != nil {
			fatal("%v", err)
		}
		if db.URL() == "" {
			fatal("DATABASE_URL environment variable is required")
		}

		cfg, err := config.Load()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			fatal("Invalid configuration: %v", err)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fatal("Migration failed: %v", err)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		if err := runServer(cfg, sessionKey, host, port); err != nil {
			fatal("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

// sessionKeyFromEnv decodes BGUARD_SESSION_KEY.
func sessionKeyFromEnv() ([]byte, error) {
	encoded, ok := os.LookupEnv("BGUARD_SESSION_KEY")
	if !ok || encoded == "" {
		return nil, errors.New("BGUARD_SESSION_KEY environment variable is required")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad BGUARD_SESSION_KEY: %w", err)
	}
	if len(key) < minSessionKeyLength {
		return nil, fmt.Errorf("BGUARD_SESSION_KEY must decode to at least %d bytes, got %d", minSessionKeyLength, len(key))
	}
	return key, nil
}

func runServer(cfg *config.BGuardConfig, sessionKey []byte, host, port string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingOptions{
		Endpoint: cfg.TracingEndpoint,
		Insecure: os.Getenv("BGUARD_TRACING_INSECURE") == "true",
		Version:  os.Getenv("BGUARD_VERSION"),
	})
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	if err := setupAuditStore(database); err != nil {
		return err
	}

	tokens, err := session.NewTokens(sessionKey)
	if err != nil {
		return err
	}

	s := server.NewServer(database, cfg, tokens, host, port)
	if s.Analyzer, err = newAnalyzer(ctx, cfg); err != nil {
		return err
	}
	if s.Reports, err = report.NewGeneratorFromConfig(ctx, *cfg); err != nil {
		printWarn("Report generation disabled: %v", err)
	}

	endpoints.RegisterAll(s)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Running server at http://%s:%s...\n", host, port)
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("Tracing shutdown: %v", err)
	}
	return <-errCh
}

// setupAuditStore persists security events through the server's own pool
// unless BGUARD_AUDIT_DATABASE_URL points somewhere else.
func setupAuditStore(database *gorm.DB) error {
	store, err := audit.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	if store == nil {
		sqlDB, err := database.DB()
		if err != nil {
			return err
		}
		store = audit.NewStoreWithDB(sqlDB)
	}
	audit.SetStore(store)
	return nil
}

func newAnalyzer(ctx context.Context, cfg *config.BGuardConfig) (*llm.Analyzer, error) {
	prompts, err := llm.LoadPrompts(cfg.AIPromptDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load AI prompts: %w", err)
	}
	if err := prompts.Watch(ctx); err != nil {
		printWarn("Prompt hot reload disabled: %v", err)
	}

	provider, err := llm.NewProvider(llm.Config{
		Provider: cfg.AIProvider,
		Model:    cfg.AIModel,
		BaseURL:  cfg.AIBaseURL,
		APIKey:   os.Getenv("BGUARD_AI_API_KEY"),
	})
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		printWarn("BGUARD_AI_API_KEY is not set, AI scanning is disabled")
	case err != nil:
		return nil, err
	}
	return llm.NewAnalyzer(provider, prompts, session.NewLimiter(cfg.AIRateLimit)), nil
}
