// Package app wires configuration, storage, messaging, and handlers
// into one container shared by the CLI and the worker.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	calendarCommands "github.com/felixgeelhaar/weekplan/internal/calendar/application/commands"
	calendarQueries "github.com/felixgeelhaar/weekplan/internal/calendar/application/queries"
	calendarDomain "github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	"github.com/felixgeelhaar/weekplan/internal/calendar/infrastructure/caldav"
	calendarPersistence "github.com/felixgeelhaar/weekplan/internal/calendar/infrastructure/persistence"
	habitCommands "github.com/felixgeelhaar/weekplan/internal/habits/application/commands"
	habitQueries "github.com/felixgeelhaar/weekplan/internal/habits/application/queries"
	habitsDomain "github.com/felixgeelhaar/weekplan/internal/habits/domain"
	habitsPersistence "github.com/felixgeelhaar/weekplan/internal/habits/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/internal/identity/application/settings"
	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
	identityPersistence "github.com/felixgeelhaar/weekplan/internal/identity/infrastructure/persistence"
	insightsQueries "github.com/felixgeelhaar/weekplan/internal/insights/application/queries"
	planningCommands "github.com/felixgeelhaar/weekplan/internal/planning/application/commands"
	planningQueries "github.com/felixgeelhaar/weekplan/internal/planning/application/queries"
	"github.com/felixgeelhaar/weekplan/internal/planning/application/services"
	planningDomain "github.com/felixgeelhaar/weekplan/internal/planning/domain"
	planningCache "github.com/felixgeelhaar/weekplan/internal/planning/infrastructure/cache"
	planningPersistence "github.com/felixgeelhaar/weekplan/internal/planning/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
	taskCommands "github.com/felixgeelhaar/weekplan/internal/tasks/application/commands"
	taskQueries "github.com/felixgeelhaar/weekplan/internal/tasks/application/queries"
	tasksDomain "github.com/felixgeelhaar/weekplan/internal/tasks/domain"
	"github.com/felixgeelhaar/weekplan/internal/tasks/infrastructure/parser"
	tasksPersistence "github.com/felixgeelhaar/weekplan/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/pkg/config"
)

// Container holds all wired dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	Driver database.Driver

	pool     *pgxpool.Pool
	sqliteDB *sql.DB
	redis    *redis.Client

	ProfileRepo identityDomain.ProfileRepository
	TaskRepo    tasksDomain.Repository
	HabitRepo   habitsDomain.Repository
	EventRepo   calendarDomain.Repository
	BlockRepo   planningDomain.BlockRepository
	OutboxRepo  outbox.Repository
	UnitOfWork  sharedApplication.UnitOfWork

	Publisher       eventbus.Publisher
	OutboxProcessor *outbox.Processor

	Settings *settings.Service

	CreateTask   *taskCommands.CreateTaskHandler
	CompleteTask *taskCommands.CompleteTaskHandler
	SnoozeTask   *taskCommands.SnoozeTaskHandler
	ListTasks    *taskQueries.ListTasksHandler
	// ParserClient is nil unless PARSER_URL is configured.
	ParserClient *parser.Client

	CreateHabit  *habitCommands.CreateHabitHandler
	ArchiveHabit *habitCommands.ArchiveHabitHandler
	ListHabits   *habitQueries.ListHabitsHandler

	AddEvent   *calendarCommands.AddEventHandler
	ListEvents *calendarQueries.ListEventsHandler
	// ImportEvents is nil unless CALDAV_URL is configured.
	ImportEvents *calendarCommands.ImportEventsHandler

	PlanWeek    *planningCommands.PlanWeekHandler
	GetWeek     *planningQueries.GetWeekHandler
	WeeklyStats *insightsQueries.WeeklyStatsHandler
}

// NewContainer wires everything from configuration. The caller owns the
// container and must Close it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid WEEKPLAN_USER_ID: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		UserID: userID,
		Driver: database.DetectDriver(cfg.DatabaseURL),
	}

	if err := c.initStorage(ctx, cfg); err != nil {
		return nil, err
	}
	if err := c.initMessaging(cfg, logger); err != nil {
		c.Close()
		return nil, err
	}
	c.initHandlers(cfg, logger)

	return c, nil
}

func (c *Container) initStorage(ctx context.Context, cfg *config.Config) error {
	switch c.Driver {
	case database.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.pool = pool

		c.ProfileRepo = identityPersistence.NewPostgresProfileRepository(pool)
		c.TaskRepo = tasksPersistence.NewPostgresTaskRepository(pool)
		c.HabitRepo = habitsPersistence.NewPostgresHabitRepository(pool)
		c.EventRepo = calendarPersistence.NewPostgresEventRepository(pool)
		c.BlockRepo = planningPersistence.NewPostgresBlockRepository(pool)
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	default:
		path := cfg.SQLitePath
		if path == "" && c.Driver == database.DriverSQLite && cfg.DatabaseURL != "" {
			path = cfg.DatabaseURL
		}
		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.sqliteDB = db

		c.ProfileRepo = identityPersistence.NewSQLiteProfileRepository(db)
		c.TaskRepo = tasksPersistence.NewSQLiteTaskRepository(db)
		c.HabitRepo = habitsPersistence.NewSQLiteHabitRepository(db)
		c.EventRepo = calendarPersistence.NewSQLiteEventRepository(db)
		c.BlockRepo = planningPersistence.NewSQLiteBlockRepository(db)
		c.OutboxRepo = outbox.NewSQLiteRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	}

	return nil
}

func (c *Container) initMessaging(cfg *config.Config, logger *slog.Logger) error {
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		c.Publisher = publisher
	} else {
		c.Publisher = eventbus.NewInProcessBus(logger)
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.Publisher, outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}, logger)

	return nil
}

func (c *Container) initHandlers(cfg *config.Config, logger *slog.Logger) {
	c.Settings = settings.NewService(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork, logger)

	c.CreateTask = taskCommands.NewCreateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.CompleteTask = taskCommands.NewCompleteTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.SnoozeTask = taskCommands.NewSnoozeTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListTasks = taskQueries.NewListTasksHandler(c.TaskRepo)
	if cfg.ParserURL != "" {
		c.ParserClient = parser.NewClient(cfg.ParserURL, cfg.ParserAPIKey, logger)
	}

	c.CreateHabit = habitCommands.NewCreateHabitHandler(c.HabitRepo, c.OutboxRepo, c.UnitOfWork)
	c.ArchiveHabit = habitCommands.NewArchiveHabitHandler(c.HabitRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListHabits = habitQueries.NewListHabitsHandler(c.HabitRepo)

	c.AddEvent = calendarCommands.NewAddEventHandler(c.EventRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListEvents = calendarQueries.NewListEventsHandler(c.EventRepo)
	if cfg.CalDAVURL != "" {
		importer := caldav.NewImporter(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword, logger)
		if cfg.CalDAVToken != "" {
			importer = importer.WithToken(cfg.CalDAVToken)
		}
		if cfg.CalDAVCalendar != "" {
			importer = importer.WithCalendarPath(cfg.CalDAVCalendar)
		}
		c.ImportEvents = calendarCommands.NewImportEventsHandler(importer, c.EventRepo, c.OutboxRepo, c.UnitOfWork)
	}

	var viewCache planningQueries.WeekViewCache
	var invalidator planningCommands.ScheduleCache
	if cfg.RedisURL != "" {
		if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
			logger.Warn("invalid REDIS_URL, caching disabled", slog.String("error", err.Error()))
		} else {
			c.redis = redis.NewClient(opts)
			weekCache := planningCache.NewWeekCache(c.redis, 0)
			viewCache = weekCache
			invalidator = weekCache
		}
	}

	engine := services.NewPlacementEngine(logger)
	c.PlanWeek = planningCommands.NewPlanWeekHandler(
		c.ProfileRepo, c.TaskRepo, c.HabitRepo, c.EventRepo, c.BlockRepo,
		c.OutboxRepo, c.UnitOfWork, engine, invalidator, logger, cfg.RespectBusyFlag,
	)
	c.GetWeek = planningQueries.NewGetWeekHandler(c.BlockRepo, c.EventRepo, viewCache, logger)
	c.WeeklyStats = insightsQueries.NewWeeklyStatsHandler(c.BlockRepo, c.TaskRepo)
}

// Ping verifies the backing store is reachable.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool != nil {
		return c.pool.Ping(ctx)
	}
	if c.sqliteDB != nil {
		return c.sqliteDB.PingContext(ctx)
	}
	return nil
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.Logger.Warn("failed to close publisher", slog.String("error", err.Error()))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if c.pool != nil {
		c.pool.Close()
	}
	if c.sqliteDB != nil {
		if err := c.sqliteDB.Close(); err != nil {
			c.Logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}
}
