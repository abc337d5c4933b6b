package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/config"
	"github.com/Adeboye22/user-fuelup/stores"
)

const (
	staleSessionAge = 24 * time.Hour
	housekeeping    = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := stores.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	events, closeEvents := eventPublisher(cfg, logger)
	defer closeEvents()

	api := clients.NewAPIClient(cfg.APIBaseURL, clients.WithTimeout(cfg.APITimeout))
	app, err := NewApp(cfg, logger, stores.New(api, events, logger), db.Sessions, db.Notifications)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	go app.monitor.Run(ctx)
	go app.housekeeping(ctx, db)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	logger.Info("dashboard listening", "addr", cfg.Addr, "api", cfg.APIBaseURL, "db", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

// eventPublisher publishes to the events queue when a broker is configured
// and only logs events otherwise.
func eventPublisher(cfg *config.Config, logger *slog.Logger) (clients.EventPublisher, func()) {
	if cfg.AMQPURL == "" {
		logger.Info("no AMQP URL configured, events are logged only")
		return clients.NewLogPublisher(logger), func() {}
	}
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Warn("failed to connect to RabbitMQ, events are logged only", "err", err)
		return clients.NewLogPublisher(logger), func() {}
	}
	client := clients.NewAmqpClient(clients.Wrap(conn))
	return clients.NewQueuePublisher(client, cfg.EventsQueue, logger), func() { conn.Close() }
}

// housekeeping forgets idle rate limiters and purges abandoned anonymous
// sessions.
func (a *App) housekeeping(ctx context.Context, db *stores.Persistence) {
	ticker := time.NewTicker(housekeeping)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.limiter.Cleanup(30 * time.Minute)
			repo, ok := db.Sessions.(*stores.SQLSessionRepository)
			if !ok {
				continue
			}
			n, err := repo.PurgeStale(ctx, time.Now().Add(-staleSessionAge))
			if err != nil {
				a.log.Error("purge sessions", "err", err)
				continue
			}
			a.log.Debug("purged sessions", "count", n)
		}
	}
}
