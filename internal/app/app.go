// Package app assembles the bookstore service from its configuration.
package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"bookstore/internal/audit"
	"bookstore/internal/cache"
	"bookstore/internal/config"
	"bookstore/internal/handlers"
	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"
	"bookstore/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// App owns the HTTP server and every resource it depends on.
type App struct {
	Fiber  *fiber.App
	Config config.Config

	db    *gorm.DB
	cache cache.Store
	mq    *rabbitmq.Client
}

// New opens the store, cache and audit transport described by cfg and
// registers the routes. Callers must Close the returned App.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Config: cfg}

	repo, err := a.openStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.cache, err = cache.New(cfg.Cache)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	sink, err := a.openAudit()
	if err != nil {
		a.Close()
		return nil, err
	}

	bookService := services.NewBookService(repo, a.cache, sink, cfg.ServiceOptions())
	bookHandler := handlers.NewBookHandler(bookService)

	a.Fiber = fiber.New()
	a.Fiber.Use(recover.New())
	a.Fiber.Use(logger.New())

	api := a.Fiber.Group("/api")
	bookHandler.RegisterRoutes(api)

	a.Fiber.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return a, nil
}

func (a *App) openStore() (repositories.BookRepository, error) {
	var dialector gorm.Dialector
	switch a.Config.StoreDriver {
	case config.StoreMemory:
		log.Println("Using in-memory book store")
		return repositories.NewMockBookRepository(), nil
	case config.StorePostgres:
		dialector = postgres.Open(a.Config.DatabaseDSN)
	default:
		dialector = sqlite.Open(a.Config.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	if err := db.AutoMigrate(&models.Book{}, &models.AuditLog{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return repositories.NewGORMBookRepository(db), nil
}

// openAudit picks the audit sink. With RabbitMQ configured entries are
// published to the queue and, when a database is open, drained into it.
func (a *App) openAudit() (audit.Sink, error) {
	if a.Config.RabbitMQURL == "" {
		if a.db == nil {
			return audit.LogSink{}, nil
		}
		return audit.NewGORMSink(a.db), nil
	}

	mq, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:    a.Config.RabbitMQURL,
		Queues: []string{a.Config.AuditQueue},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	a.mq = mq

	if a.db != nil {
		log.Printf("Starting audit consumer on %s", a.Config.AuditQueue)
		if err := mq.Consume(a.Config.AuditQueue, audit.DeliveryHandler(audit.NewGORMSink(a.db))); err != nil {
			return nil, fmt.Errorf("failed to start audit consumer: %w", err)
		}
		return audit.NewAMQPSink(mq, a.Config.AuditQueue), nil
	}
	return audit.MultiSink{audit.NewAMQPSink(mq, a.Config.AuditQueue), audit.LogSink{}}, nil
}

// Close releases the cache, the RabbitMQ connection and the database.
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
