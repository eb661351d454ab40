package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/app"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/cache"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/reference"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/repository"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/reservation"
	appvalidator "github.com/OnsongoMabeya/simple-theatre-ticketing/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type TestApp struct {
	App       *app.Application
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Inventory *repository.PostgresStore[domain.Theatre]
	Ledger    *repository.PostgresStore[domain.Ledger]
	Cache     *cache.InventoryCache
	Engine    *reservation.Engine
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	inventory := repository.NewPostgresInventoryStore(db).WithLockTimeout(cfg.DB.LockTimeout)
	ledger := repository.NewPostgresLedgerStore(db).WithLockTimeout(cfg.DB.LockTimeout)

	inventoryCache := cache.NewInventoryCache(inventory, redisClient, cfg.Redis.CacheTTL, logger)

	admin, err := domain.NewStaticAdmin(cfg.Admin.Username, cfg.Admin.Password, bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	references := reference.NewGenerator(reference.NewRedisSource(redisClient, reference.DefaultRedisKey))

	engine := reservation.NewEngine(inventory, ledger, references,
		reservation.WithLogger(logger),
		reservation.WithNotifier(inventoryCache),
	)

	manager := reservation.NewManager(engine, admin, reservation.WithSeatRelease(cfg.ReleaseSeatsOnDelete))

	application, err := app.NewApp(cfg, logger, appvalidator.NewValidator(), inventoryCache, engine, manager)
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:       application,
		DB:        db,
		Redis:     redisClient,
		Inventory: inventory,
		Ledger:    ledger,
		Cache:     inventoryCache,
		Engine:    engine,
	}, nil
}

// Reset empties both snapshots and the cache, then seeds the test theatre.
func (a *TestApp) Reset(ctx context.Context) error {
	_, err := a.DB.Exec(ctx, "DELETE FROM documents")
	if err != nil {
		return err
	}

	err = a.Redis.FlushAll(ctx).Err()
	if err != nil {
		return err
	}

	return a.Inventory.Save(ctx, FixtureTheatre())
}

func (a *TestApp) Close() {
	a.Redis.Close()
	a.DB.Close()
}
