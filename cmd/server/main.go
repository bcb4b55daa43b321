package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"medssi/internal/audit"
	credhandler "medssi/internal/credential/handler"
	credmetrics "medssi/internal/credential/metrics"
	credservice "medssi/internal/credential/service"
	"medssi/internal/insight"
	jwttoken "medssi/internal/jwt_token"
	"medssi/internal/platform/config"
	"medssi/internal/platform/health"
	"medssi/internal/platform/logger"
	"medssi/internal/platform/tracer"
	preshandler "medssi/internal/presentation/handler"
	presmetrics "medssi/internal/presentation/metrics"
	presservice "medssi/internal/presentation/service"
	"medssi/internal/sandbox"
	"medssi/internal/store"
	httptransport "medssi/internal/transport/http"
	verifhandler "medssi/internal/verification/handler"
	verifmetrics "medssi/internal/verification/metrics"
	verifservice "medssi/internal/verification/service"
	"medssi/internal/workers/cleanup"
	"medssi/pkg/platform/middleware/auth"
	"medssi/pkg/platform/middleware/metadata"
	request "medssi/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	auditBufferSize   = 256
	readHeaderTimeout = 5 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("medssi sandbox stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	log.Info("initializing medssi sandbox",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"allowed_origins", cfg.AllowedOrigins,
		"sweep_interval", cfg.SweepInterval.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()

	st := store.New()
	auditPublisher := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(auditBufferSize),
		audit.WithPublisherLogger(log),
		audit.WithPublisherMetrics(reg),
	)
	defer auditPublisher.Close()

	credentials := credservice.New(st,
		credservice.WithLogger(log),
		credservice.WithAuditPublisher(auditPublisher),
		credservice.WithMetrics(credmetrics.New(reg)),
		credservice.WithTokenIssuer(jwttoken.NewJWTService(cfg.CredentialSigningKey, cfg.IssuerBaseURL, cfg.CredentialTokenTTL)),
	)
	sessions := verifservice.New(st,
		verifservice.WithLogger(log),
		verifservice.WithAuditPublisher(auditPublisher),
		verifservice.WithMetrics(verifmetrics.New(reg)),
	)
	presentations := presservice.New(st,
		presservice.WithLogger(log),
		presservice.WithAuditPublisher(auditPublisher),
		presservice.WithMetrics(presmetrics.New(reg)),
		presservice.WithInsightEvaluator(insight.NewEngine()),
		presservice.WithTracer(tracer.NewOTel()),
	)
	sandboxService := sandbox.New(st,
		sandbox.WithLogger(log),
		sandbox.WithAuditPublisher(auditPublisher),
	)

	sweeper, err := cleanup.New(st,
		cleanup.WithInterval(cfg.SweepInterval),
		cleanup.WithLogger(log),
		cleanup.WithMetrics(cleanup.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	authenticator, err := auth.NewAuthenticator(auth.Tokens{
		auth.RoleIssuer:   cfg.IssuerToken,
		auth.RoleVerifier: cfg.VerifierToken,
		auth.RoleWallet:   cfg.WalletToken,
	}, log)
	if err != nil {
		return err
	}

	trustedProxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	probes := health.New(cfg.Environment)
	probes.RegisterCheck("sweeper", sweeper.Check)
	probes.RegisterCheck("audit", auditPublisher.Check)

	router := httptransport.NewRouter(httptransport.Handlers{
		Credential:   credhandler.New(credentials, log),
		Verification: verifhandler.New(sessions, log),
		Presentation: preshandler.New(presentations, log),
		Sandbox:      sandbox.NewHandler(sandboxService, log),
		Health:       probes,
	}, httptransport.Config{
		Logger:         log,
		Auth:           authenticator,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: trustedProxies,
		RequestTimeout: cfg.RequestTimeout,
		Sweep:          sweeper.Middleware,
		Metrics:        request.NewMetrics(reg),
		Gatherer:       prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := sweeper.Start(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
