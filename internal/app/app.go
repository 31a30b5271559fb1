package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"pharmadesk/internal/domain/order"
	"pharmadesk/internal/domain/payment"
	"pharmadesk/internal/handler"
	"pharmadesk/internal/storage"
	"pharmadesk/internal/storage/memory"
	"pharmadesk/internal/storage/postgres"
	"pharmadesk/internal/storage/sheets"
	"pharmadesk/pkg/health"
	"pharmadesk/pkg/httpmiddleware"
)

// NewStore builds the configured inventory backend. The returned cleanup
// function releases backend resources and must be called on shutdown.
func NewStore(ctx context.Context, cfg StoreConfig) (storage.Store, func(), error) {
	switch cfg.Backend {
	case "sheets":
		store, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			InventorySheet:  cfg.InventorySheet,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "create sheets store")
		}
		return store, func() {}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		return postgres.NewStore(pool), pool.Close, nil
	case "memory":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, errors.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.Store.Backend),
	)

	store, cleanup, err := NewStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer cleanup()

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("store", 5*time.Second, store.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	payee := payment.Payee{
		ID:            cfg.Payment.PayeeID,
		Name:          cfg.Payment.PayeeName,
		MerchantCode:  cfg.Payment.MerchantCode,
		TransactionID: cfg.Payment.TransactionID,
	}
	orderSvc := order.NewService(store, payee, cfg.Order.MaxQuantityPerLine)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	handler.New(store, orderSvc, payee).Register(mux)

	instrumented := otelhttp.NewHandler(mux, "pharmadesk",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
