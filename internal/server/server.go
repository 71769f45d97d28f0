package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goto/salt/audit"
	auditrepo "github.com/goto/salt/audit/repositories"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	handlerv1 "github.com/linkhive/linkhive/api/handler/v1"
	"github.com/linkhive/linkhive/core/bookmark"
	"github.com/linkhive/linkhive/core/credential"
	"github.com/linkhive/linkhive/core/feed"
	"github.com/linkhive/linkhive/core/identity"
	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/core/user"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres"
	"github.com/linkhive/linkhive/jobs"
	pkgaudit "github.com/linkhive/linkhive/pkg/audit"
	"github.com/linkhive/linkhive/pkg/crypto"
	linkhivehttp "github.com/linkhive/linkhive/pkg/http"
	"github.com/linkhive/linkhive/pkg/log"
	"github.com/linkhive/linkhive/pkg/opentelemetry"
)

type services struct {
	siteConfigService *siteconfig.Service
	prober            *siteconfig.Prober
	credentialService *credential.Service
	feedService       *feed.Service
	bookmarkService   *bookmark.Service
	userService       *user.Service
	identityService   *identity.Service
	auditLogRepo      *postgres.AuditLogRepository
	jobHandler        *jobs.Handler
}

func initServices(config Config, logger log.Logger, store *postgres.Store) (*services, error) {
	sqlDB, err := store.DB().DB()
	if err != nil {
		return nil, err
	}
	auditLogger := audit.New(
		audit.WithRepository(auditrepo.NewPostgresRepository(sqlDB)),
	)

	v := validator.New()
	httpClient := linkhivehttp.NewClient(&config.HTTPClient)
	aes := crypto.NewAES(config.EncryptionSecretKey)

	siteConfigService := siteconfig.NewService(siteconfig.ServiceDeps{
		Repository:  postgres.NewSiteConfigRepository(store.DB()),
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})
	prober := siteconfig.NewProber(httpClient, logger)
	credentialService := credential.NewService(credential.ServiceDeps{
		Repository:  postgres.NewCredentialRepository(store.DB()),
		Crypto:      aes,
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})
	feedService := feed.NewService(feed.ServiceDeps{
		Repository:  postgres.NewFeedRepository(store.DB()),
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})
	bookmarkService := bookmark.NewService(bookmark.ServiceDeps{
		Repository:  postgres.NewBookmarkRepository(store.DB()),
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})
	userService := user.NewService(user.ServiceDeps{
		Repository:  postgres.NewUserRepository(store.DB()),
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})
	identityService := identity.NewService(identity.ServiceDeps{
		OAuthConfig: &oauth2.Config{
			ClientID:     config.Auth.OIDC.ClientID,
			ClientSecret: config.Auth.OIDC.ClientSecret,
			RedirectURL:  config.Auth.OIDC.RedirectURL,
			Scopes:       config.Auth.OIDC.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.Auth.OIDC.AuthURL,
				TokenURL: config.Auth.OIDC.TokenURL,
			},
		},
		UserInfoURL: config.Auth.OIDC.UserInfoURL,
		HTTPClient:  httpClient,
		Logger:      logger,
	})

	jobHandler := jobs.NewHandler(jobs.HandlerDeps{
		FeedService:       feedService,
		BookmarkService:   bookmarkService,
		SiteConfigService: siteConfigService,
		CredentialService: credentialService,
		Prober:            prober,
		HTTPClient:        httpClient,
		Logger:            logger,
	})

	return &services{
		siteConfigService: siteConfigService,
		prober:            prober,
		credentialService: credentialService,
		feedService:       feedService,
		bookmarkService:   bookmarkService,
		userService:       userService,
		identityService:   identityService,
		auditLogRepo:      postgres.NewAuditLogRepository(store.DB()),
		jobHandler:        jobHandler,
	}, nil
}

// RunServer starts the admin API and blocks until a shutdown signal.
func RunServer(config Config) error {
	logger := log.NewCtxLogger(config.LogLevel, nil)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := opentelemetry.Init(ctx, config.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(); err != nil {
			logger.Warn(ctx, "failed to shut down telemetry", "error", err)
		}
	}()

	store, err := postgres.NewStore(&config.DB)
	if err != nil {
		return err
	}

	svcs, err := initServices(config, logger, store)
	if err != nil {
		return err
	}

	handler := handlerv1.NewHandler(handlerv1.HandlerDeps{
		SiteConfigService: svcs.siteConfigService,
		Prober:            svcs.prober,
		CredentialService: svcs.credentialService,
		FeedService:       svcs.feedService,
		BookmarkService:   svcs.bookmarkService,
		UserService:       svcs.userService,
		IdentityService:   svcs.identityService,
		AuditLogLister:    svcs.auditLogRepo,
		Logger:            logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(actorMiddleware(config.Auth.HeaderKey, svcs.identityService, logger))
	r.Mount("/api/v1", handler.Routes())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: otelhttp.NewHandler(r, "linkhive-api"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
		}
	}()

	logger.Info(ctx, "starting server", "port", config.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunJob executes a single configured job and exits.
func RunJob(ctx context.Context, config Config, jobType jobs.Type) error {
	logger := log.NewCtxLogger(config.LogLevel, nil)

	store, err := postgres.NewStore(&config.DB)
	if err != nil {
		return err
	}
	svcs, err := initServices(config, logger, store)
	if err != nil {
		return err
	}

	job, ok := config.Jobs[jobType]
	if !ok {
		job = jobs.Job{Enabled: true}
	}
	if !job.Enabled {
		logger.Info(ctx, "job is disabled, skipping", "job", string(jobType))
		return nil
	}

	ctx = pkgaudit.WithActor(ctx, domain.SystemActorName)
	return svcs.jobHandler.Run(ctx, jobType, job.Config)
}

// RunMigrations applies the database schema.
func RunMigrations(config Config) error {
	store, err := postgres.NewStore(&config.DB)
	if err != nil {
		return err
	}
	return store.Migrate()
}

// actorMiddleware resolves the acting user for audit records. A bearer
// token takes precedence and is resolved through the identity service;
// otherwise the proxy-set header is trusted as-is.
func actorMiddleware(headerKey string, identityService *identity.Service, logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := r.Header.Get(headerKey)

			if raw := bearerToken(r); raw != "" {
				profile, err := identityService.ResolveAccessToken(r.Context(), raw)
				if err != nil {
					logger.Debug(r.Context(), "could not resolve bearer token", "error", err)
				} else if profile.Email != "" {
					actor = profile.Email
				}
			}

			if actor != "" {
				r = r.WithContext(pkgaudit.WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
