package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"

	"storefront/internal/assets"
	"storefront/internal/auth"
	"storefront/internal/db"
	"storefront/internal/domain/categories"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
	"storefront/internal/domain/storage"
	"storefront/internal/domain/users"
	"storefront/internal/mailer"
	"storefront/internal/ratelimiter"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a console zap logger with colored levels.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

var version = "0.4.0"

//	@title			Storefront API
//	@description	Catalog, cart checkout and admin API for the storefront.

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	// a missing .env is fine; the environment may be set by the host
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Database
	pool, err := db.New(db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    int32(cfg.db.maxConns),
		MaxIdleTime: cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	orderNumbers, err := orders.NewNumberGenerator(cfg.orders.numberSalt)
	if err != nil {
		logger.Fatal(err)
	}

	store := storage.NewContainer(pool, orderNumbers)

	// Cloudinary
	productPhotos, err := assets.NewCloudinaryFromURL(cfg.assets.cloudinaryURL, cfg.assets.folder)
	if err != nil {
		logger.Fatal(err)
	}
	userPhotos := productPhotos.Folder(cfg.assets.usersFolder)

	// Order confirmations are optional
	var notifier orders.Notifier
	if cfg.mail.host != "" {
		smtp, err := mailer.NewSMTPClient(mailer.SMTPConfig{
			Host:     cfg.mail.host,
			Port:     cfg.mail.port,
			Username: cfg.mail.username,
			Password: cfg.mail.password,
			From:     cfg.mail.fromEmail,
		})
		if err != nil {
			logger.Fatal(err)
		}
		notifier = mailer.NewOrderConfirmation(smtp)
	} else {
		logger.Warn("SMTP_HOST not set, order confirmation mails are disabled")
	}

	categoryService := categories.NewService(store.Categories)
	productService := products.NewService(store.Products, productPhotos, categoryService, logger)

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.requestsPerTimeFrame,
		cfg.rateLimiter.timeFrame,
	)
	done := make(chan struct{})
	defer close(done)
	go rateLimiter.Run(done)

	app := &application{
		config:        cfg,
		logger:        logger,
		products:      productService,
		categories:    categoryService,
		orders:        orders.NewService(store.Orders, store.Products, notifier, logger),
		reviews:       reviews.NewService(store.Reviews, productService),
		users:         users.NewService(store.Users, userPhotos, logger),
		authenticator: auth.NewJWTAuthenticator(cfg.auth.token.secret, cfg.auth.token.iss, cfg.auth.token.iss, cfg.auth.token.exp),
		rateLimiter:   rateLimiter,
	}

	// Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Fatal(err)
	}
}
