package cmd

import (
	"context"
	"errors"
	"fmt"

	api "assetsync/internal/adapters/in/http"
	"assetsync/internal/adapters/out/memory"
	"assetsync/internal/adapters/out/postgres"
	"assetsync/internal/adapters/out/postgres/changestream"
	"assetsync/internal/adapters/out/redisbus"
	"assetsync/internal/core/application/changefeed"
	"assetsync/internal/core/application/tracking"
	"assetsync/internal/core/application/usecases/commands"
	"assetsync/internal/core/application/usecases/queries"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/ports"
	"assetsync/internal/jobs"
	"assetsync/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg      Config
	logger   *zap.Logger
	registry *prometheus.Registry

	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	sources    []ports.ChangeStream
	bus        *redisbus.Bus

	getOrderHandler queries.GetOrderQueryHandler
	router          *changefeed.Router
	tracker         *tracking.Tracker
	engine          *commands.Engine
}

// NewCompositionRoot opens the configured store and wires every component.
func NewCompositionRoot(cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(c.registry)

	switch cfg.Storage {
	case StoragePostgres:
		if err := c.openPostgres(); err != nil {
			return nil, err
		}
	default:
		store := memory.NewStore(logger)
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		c.sources = append(c.sources, store)
	}

	if cfg.RedisURL != "" {
		bus, err := redisbus.NewBus(cfg.RedisURL, cfg.RedisChannel, logger)
		if err != nil {
			return nil, err
		}
		c.bus = bus
		c.sources = append(c.sources, bus)
	}

	reader := c.uowFactory.Create()
	c.getOrderHandler = queries.NewGetOrderQueryHandler(reader.OrderRepository())

	c.router = changefeed.NewRouter(changefeed.Config{
		SubscriberBuffer: cfg.Feed.SubscriberBuffer,
		DedupeTTL:        cfg.Feed.DedupeTTL,
	}, c.getOrderHandler, logger)

	var publisher ports.LocationPublisher = c.router
	if c.bus != nil {
		publisher = locationPublishers{c.router, c.bus}
	}

	c.tracker = tracking.NewTracker(c.createTrackingUoWFactory(), publisher, tracking.Config{
		MinInterval:         cfg.Tracking.MinInterval,
		TrailCapacity:       cfg.Tracking.TrailCapacity,
		MaxAttempts:         cfg.Tracking.MaxAttempts,
		UnavailableAttempts: cfg.Tracking.UnavailableAttempts,
	}, logger)

	retry := commands.DefaultRetryPolicy()
	retry.MaxAttempts = cfg.Tracking.MaxAttempts
	retry.UnavailableAttempts = cfg.Tracking.UnavailableAttempts
	c.engine = commands.NewEngine(c.createUoWFactory(), retry, logger)

	return c, nil
}

func (c *CompositionRoot) openPostgres() error {
	db, err := gorm.Open(gorm_postgres.Open(c.cfg.DB.DSN()), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	if err = postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrating postgres: %w", err)
	}

	c.gormDB = db
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.sources = append(c.sources, changestream.NewListener(changestream.Config{
		DSN:     c.cfg.DB.DSN(),
		Channel: postgres.ChangeChannel,
	}, c.logger))
	return nil
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createTrackingUoWFactory() tracking.UoWFactory {
	return FuncTrackingUoWFactory(func() tracking.UoW {
		return c.uowFactory.Create()
	})
}

// RunFeed consumes every change source until ctx is done.
func (c *CompositionRoot) RunFeed(ctx context.Context) error {
	return c.router.Run(ctx, c.sources...)
}

func (c *CompositionRoot) Engine() *commands.Engine {
	return c.engine
}

func (c *CompositionRoot) Tracker() *tracking.Tracker {
	return c.tracker
}

func (c *CompositionRoot) Router() *changefeed.Router {
	return c.router
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.tracker, c.router, jobs.Schedules{
		LocationFlush: c.cfg.Jobs.LocationFlushSchedule,
		DedupePrune:   c.cfg.Jobs.DedupePruneSchedule,
	}, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *api.Server {
	reader := c.uowFactory.Create()
	server := api.NewServer(
		c.engine,
		c.tracker,
		c.router,
		c.getOrderHandler,
		queries.NewGetActiveOrdersQueryHandler(reader.OrderRepository()),
		queries.NewGetContainersQueryHandler(reader.ContainerRepository()),
		c.cfg.Feed.Heartbeat,
	)

	if c.gormDB != nil {
		server.AddHealthCheck("postgres", func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}
	if c.bus != nil {
		server.AddHealthCheck("redis", c.bus.Ping)
	}
	return server
}

func (c *CompositionRoot) CreateEcho() *echo.Echo {
	return api.NewEcho(c.CreateHTTPServer(), c.registry, c.logger)
}

// Close releases connections opened by NewCompositionRoot.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.bus != nil {
		errList = append(errList, c.bus.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errList = append(errList, sqlDB.Close())
		}
	}
	return errors.Join(errList...)
}

// locationPublishers delivers a sample to every publisher and joins their errors.
type locationPublishers []ports.LocationPublisher

func (p locationPublishers) PublishLocation(ctx context.Context, sample location.Sample) error {
	var errList []error
	for _, publisher := range p {
		if err := publisher.PublishLocation(ctx, sample); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncTrackingUoWFactory func() tracking.UoW

func (f FuncTrackingUoWFactory) Create() tracking.UoW {
	return f()
}
