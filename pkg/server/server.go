package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/config"
	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/report"
	"github.com/bguard/bguard-suite/pkg/server/middleware"
	"github.com/bguard/bguard-suite/pkg/server/store"
	gormstore "github.com/bguard/bguard-suite/pkg/server/store/gorm"
	"github.com/bguard/bguard-suite/pkg/session"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.BGuardConfig

	HealthStore            store.HealthStore
	OrganizationsStore     store.OrganizationsStore
	UsersStore             store.UsersStore
	SessionsStore          store.SessionsStore
	ThreatModelsStore      store.ThreatModelsStore
	FindingsStore          store.FindingsStore
	DesignReviewsStore     store.DesignReviewsStore
	AssetsStore            store.AssetsStore
	TagsStore              store.TagsStore
	EndpointsStore         store.DiscoveredEndpointsStore
	ThirdPartyReviewsStore store.ThirdPartyReviewsStore
	ReportsStore           store.ReportsStore
	SecurityEventsStore    store.SecurityEventsStore
	DashboardStore         store.DashboardStore

	Tokens            *session.Tokens
	SessionMiddleware *middleware.SessionAuthenticator
	LoginLimiter      *session.Limiter

	// Analyzer and Reports are optional; endpoints answer 503 without them.
	Analyzer *llm.Analyzer
	Reports  *report.Generator
	Metrics  *telemetry.Metrics

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.BGuardConfig,
	tokens *session.Tokens,
	host string,
	port string,
) *Server {
	s := &Server{
		Router: mux.NewRouter().UseEncodedPath(),
		DB:     db,
		Config: cfg,
		Tokens: tokens,

		LoginLimiter: session.NewLimiter(cfg.LoginRateLimit),
	}
	if db != nil {
		s.HealthStore = gormstore.NewHealthStore(db)
		s.OrganizationsStore = gormstore.NewOrganizationsStore(db)
		s.UsersStore = gormstore.NewUsersStore(db)
		s.SessionsStore = gormstore.NewSessionsStore(db)
		s.ThreatModelsStore = gormstore.NewThreatModelsStore(db)
		s.FindingsStore = gormstore.NewFindingsStore(db)
		s.DesignReviewsStore = gormstore.NewDesignReviewsStore(db)
		s.AssetsStore = gormstore.NewAssetsStore(db)
		s.TagsStore = gormstore.NewTagsStore(db)
		s.EndpointsStore = gormstore.NewDiscoveredEndpointsStore(db)
		s.ThirdPartyReviewsStore = gormstore.NewThirdPartyReviewsStore(db)
		s.ReportsStore = gormstore.NewReportsStore(db)
		s.SecurityEventsStore = gormstore.NewSecurityEventsStore(db)
		s.DashboardStore = gormstore.NewDashboardStore(db)
	}
	s.SessionMiddleware = middleware.NewSessionAuthenticator(tokens, s.SessionsStore, s.UsersStore, s.OrganizationsStore, cfg)
	if cfg.MetricsOn() {
		s.Metrics = telemetry.NewMetrics()
	}

	s.Router.Use(telemetry.TraceMiddleware, s.Metrics.Middleware)

	var handler http.Handler = s.Router
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.AllowCredentials(),
		)(handler)
	}

	s.srv = &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, handler),
		Addr:         host + ":" + port,
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called. It returns nil after a graceful
// shutdown.
func (s *Server) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
