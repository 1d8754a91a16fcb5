package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/bienesraices/config"
	"github.com/oksasatya/bienesraices/internal/container"
	pginfra "github.com/oksasatya/bienesraices/internal/infrastructure/postgres"
	"github.com/oksasatya/bienesraices/internal/infrastructure/search"
	"github.com/oksasatya/bienesraices/internal/infrastructure/storage"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
	"github.com/oksasatya/bienesraices/internal/router"
	"github.com/oksasatya/bienesraices/pkg/helpers"
	"github.com/oksasatya/bienesraices/pkg/mailer"
	"github.com/oksasatya/bienesraices/pkg/validation"
)

const uploadsPath = "/uploads"

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis (catalog cache + rate limits). The app keeps working without it.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable; cache and rate limits disabled")
		_ = rdb.Close()
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	// Property images: GCS when a bucket is configured, local disk otherwise
	if cfg.GCSBucket != "" {
		gcsClient, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetImageStore(storage.NewGCSStore(gcsClient, cfg.GCSBucket, cfg.MaxImageBytes))
	} else {
		local, err := storage.NewLocalStore(cfg.UploadsDir, uploadsPath, cfg.MaxImageBytes)
		if err != nil {
			log.Fatalf("failed to prepare uploads dir: %v", err)
		}
		container.SetImageStore(local)
	}

	// Elasticsearch (optional search backend)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; using SQL search")
		} else {
			container.SetPropertyIndex(search.NewPropertyIndex(es, cfg.ESPropertiesIndex))
		}
	}

	// Email: queue through RabbitMQ when configured, else send in-process
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	sender, err := mailer.NewSender(cfg.MailDriver, smtpConfig(cfg), mg, logger)
	if err != nil {
		log.Fatalf("mail transport: %v", err)
	}
	var pub mailer.Publisher
	if cfg.RabbitMQURL != "" {
		rp, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rp.Close()
		pub = rp
	}
	container.SetDispatcher(mailer.NewDispatcher(pub, sender, cfg.MailSendEnabled, logger))

	// Session
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))
	container.SetCookies(helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure))

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled {
		r.Use(helpers.AccessLog(logger))
	}
	if cfg.GCSBucket == "" {
		r.Static(uploadsPath, cfg.UploadsDir)
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func smtpConfig(cfg *config.Config) mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
