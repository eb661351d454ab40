package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/cache"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/middleware"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/queue"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/reference"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/repository"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/reservation"
	appvalidator "github.com/OnsongoMabeya/simple-theatre-ticketing/internal/validator"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/vcs"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/migrations"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"golang.org/x/crypto/bcrypt"
)

const serviceName = "theatre-ticketing-api"

var (
	version = vcs.Version()
)

// Reserver commits new bookings.
type Reserver interface {
	Reserve(ctx context.Context, req domain.ReservationRequest) (*domain.Booking, error)
}

// BookingManager runs lookups and lifecycle operations on committed bookings.
type BookingManager interface {
	Get(ctx context.Context, reference string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	CheckIn(ctx context.Context, reference string) (*domain.Booking, error)
	Delete(ctx context.Context, reference string, creds domain.AdminCredentials) (*domain.Booking, error)
	Authenticate(ctx context.Context, creds domain.AdminCredentials) error
}

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate

	inventory domain.InventoryReader
	reserver  Reserver
	bookings  BookingManager

	limiter          *middleware.RateLimiter
	requestValidator func(http.Handler) http.Handler
}

type Config struct {
	Port                 int
	Env                  string
	Store                string
	DataDir              string
	SeedFile             string
	ReferenceSource      string
	ReleaseSeatsOnDelete bool
	OtelCollectorUrl     string
	DB                   DBConfig
	Redis                RedisConfig
	AMQP                 AMQPConfig
	Admin                AdminConfig
	RateLimit            RateLimitConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
	LockTimeout  time.Duration
	Migrate      bool
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
	CacheTTL     time.Duration
}

type AMQPConfig struct {
	URL string
}

type AdminConfig struct {
	Username string
	Password string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	inventory domain.InventoryReader,
	reserver Reserver,
	bookings BookingManager) (*Application, error) {

	app := &Application{
		config:    cfg,
		logger:    logger,
		validator: validator,
		inventory: inventory,
		reserver:  reserver,
		bookings:  bookings,
	}

	if cfg.RateLimit.Enabled {
		app.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}

	app.requestValidator, err = app.validateRequest(doc)
	if err != nil {
		return nil, err
	}

	return app, nil
}

func parseFlags() (Config, bool) {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.Store, "store", "file", "Snapshot store (memory|file|postgres)")
	flag.StringVar(&cfg.DataDir, "data-dir", "data", "Directory of the JSON snapshot files")
	flag.StringVar(&cfg.SeedFile, "seed-file", "", "Theatre JSON used to seed an empty inventory")
	flag.StringVar(&cfg.ReferenceSource, "reference-source", "clock", "Booking reference source (clock|redis|uuid)")
	flag.BoolVar(&cfg.ReleaseSeatsOnDelete, "release-seats-on-delete", true, "Return seats of deleted bookings to the inventory")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.DurationVar(&cfg.DB.LockTimeout, "db-lock-timeout", 2*time.Second, "PostgreSQL lock timeout for snapshot writes")
	flag.BoolVar(&cfg.DB.Migrate, "db-migrate", false, "Apply database migrations on start-up")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis address; enables the availability cache")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")
	flag.DurationVar(&cfg.Redis.CacheTTL, "redis-cache-ttl", cache.DefaultTTL, "Lifetime of the cached inventory")

	flag.StringVar(&cfg.AMQP.URL, "amqp-url", "", "RabbitMQ URL; enables booking notifications")

	flag.StringVar(&cfg.Admin.Username, "admin-username", "admin", "Admin username")
	flag.StringVar(&cfg.Admin.Password, "admin-password", "", "Admin password")

	flag.BoolVar(&cfg.RateLimit.Enabled, "limiter-enabled", true, "Rate limit booking requests per client")
	flag.Float64Var(&cfg.RateLimit.RPS, "limiter-rps", 2, "Booking requests per second per client")
	flag.IntVar(&cfg.RateLimit.Burst, "limiter-burst", 4, "Booking request burst per client")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	return cfg, *displayVersion
}

func Run() error {
	cfg, displayVersion := parseFlags()

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, logger, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	inventory, ledger, closeStores, err := newStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	seeded, err := repository.SeedInventory(ctx, inventory, cfg.SeedFile)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded inventory", "file", cfg.SeedFile)
	}

	err = repository.NormalizeInventory(ctx, inventory)
	if err != nil {
		return err
	}

	source, err := newReferenceSource(cfg, redisClient)
	if err != nil {
		return err
	}

	admin, err := domain.NewStaticAdmin(cfg.Admin.Username, cfg.Admin.Password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var (
		reader    domain.InventoryReader = inventory
		notifiers domain.Notifiers
	)

	if redisClient != nil {
		inventoryCache := cache.NewInventoryCache(inventory, redisClient, cfg.Redis.CacheTTL, logger)
		reader = inventoryCache
		notifiers = append(notifiers, inventoryCache)
	}

	if cfg.AMQP.URL != "" {
		publisher, err := queue.Dial(cfg.AMQP.URL, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()

		notifiers = append(notifiers, publisher)
	}

	engine := reservation.NewEngine(inventory, ledger, reference.NewGenerator(source),
		reservation.WithLogger(logger),
		reservation.WithNotifier(notifiers),
	)

	manager := reservation.NewManager(engine, admin, reservation.WithSeatRelease(cfg.ReleaseSeatsOnDelete))

	app, err := NewApp(cfg, logger, appvalidator.NewValidator(), reader, engine, manager)
	if err != nil {
		return err
	}

	return app.run()
}

func newStores(cfg Config) (domain.InventoryStore, domain.LedgerStore, func(), error) {
	switch cfg.Store {
	case "memory":
		return repository.NewMemoryInventoryStore(), repository.NewMemoryLedgerStore(), func() {}, nil
	case "file":
		return repository.NewFileInventoryStore(cfg.DataDir), repository.NewFileLedgerStore(cfg.DataDir), func() {}, nil
	case "postgres":
		if cfg.DB.Migrate {
			err := migrations.Up(cfg.DB.DSN)
			if err != nil {
				return nil, nil, nil, err
			}
		}

		db, err := NewDatabasePool(cfg)
		if err != nil {
			return nil, nil, nil, err
		}

		inventory := repository.NewPostgresInventoryStore(db).WithLockTimeout(cfg.DB.LockTimeout)
		ledger := repository.NewPostgresLedgerStore(db).WithLockTimeout(cfg.DB.LockTimeout)

		return inventory, ledger, db.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func newReferenceSource(cfg Config, redisClient *redis.Client) (reference.Source, error) {
	switch cfg.ReferenceSource {
	case "clock":
		return reference.NewClockSource(), nil
	case "uuid":
		return reference.UUIDSource{}, nil
	case "redis":
		if redisClient == nil {
			return nil, errors.New("the redis reference source requires -redis-url")
		}
		return reference.NewRedisSource(redisClient, reference.DefaultRedisKey), nil
	default:
		return nil, fmt.Errorf("unknown reference source %q", cfg.ReferenceSource)
	}
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	ctx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()

	if app.limiter != nil {
		go app.limiter.Cleanup(ctx, time.Minute, 3*time.Minute)
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "store", app.config.Store)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if app.config.OtelCollectorUrl != "" {
		r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	}
	r.Use(app.logRequest)
	r.Use(chimiddleware.Logger)
	r.Use(app.recoverPanic)
	if app.requestValidator != nil {
		r.Use(app.requestValidator)
	}

	r.Get("/healthcheck", app.GetHealth)

	r.Get("/events", app.ListEvents)
	r.Get("/events/{hallId}/{eventId}", func(w http.ResponseWriter, r *http.Request) {
		hallID, err := parsePositiveInt(chi.URLParam(r, "hallId"))
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("hall ID must be a positive integer"))
			return
		}
		app.GetEvent(w, r, hallID, chi.URLParam(r, "eventId"))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.With(app.rateLimit).Post("/", app.CreateBooking)
		r.With(app.requireAdmin).Get("/", app.ListBookings)
		r.Post("/check-in", app.CheckInBooking)
		r.Post("/delete", app.DeleteBooking)
		r.Get("/{reference}", func(w http.ResponseWriter, r *http.Request) {
			app.GetBooking(w, r, chi.URLParam(r, "reference"))
		})
	})

	r.Post("/admin/login", app.AdminLogin)

	return r
}
