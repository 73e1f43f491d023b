package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/railway-booking/internal/config"
	"github.com/iliyamo/railway-booking/internal/database"
	"github.com/iliyamo/railway-booking/internal/handler"
	"github.com/iliyamo/railway-booking/internal/memstore"
	"github.com/iliyamo/railway-booking/internal/port"
	"github.com/iliyamo/railway-booking/internal/queue"
	"github.com/iliyamo/railway-booking/internal/repository"
	"github.com/iliyamo/railway-booking/internal/router"
	"github.com/iliyamo/railway-booking/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load() // Load environment config

	users, inventory, db := openStores(ctx, cfg)
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	var events port.EventPublisher
	var wg sync.WaitGroup
	if cfg.EventsEnabled {
		events = service.NewQueuePublisher(cfg.RabbitURL)
		consumer := queue.NewConsumer(cfg.RabbitURL)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("http: %s %s %d %s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Printf("http: %s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)),
		Trains:   handler.NewTrainHandler(service.NewTrainService(inventory)),
		Bookings: handler.NewBookingHandler(service.NewBookingService(inventory, events)),
	}, router.Options{
		JWTSecret:   cfg.JWTSecret,
		AdminAPIKey: cfg.AdminAPIKey,
		Redis:       rdb,
		RateLimit:   config.LoadRateLimitConfig(),
		BookLimit:   config.LoadBookingRateLimitConfig(),
		Cache:       config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	cancel()
	wg.Wait()
	log.Println("stopped")
}

// openStores picks the storage backend named by STORE_DRIVER.  The returned
// *sql.DB is nil for the in-memory store.
func openStores(ctx context.Context, cfg config.Config) (port.UserStore, port.InventoryStore, *sql.DB) {
	if cfg.StoreDriver == config.DriverMemory {
		s := memstore.New()
		return s, s, nil
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	log.Println("connected to mysql")
	return repository.NewUserRepo(db), repository.NewInventoryRepo(db), db
}
