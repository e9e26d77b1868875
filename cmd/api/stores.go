package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
)

// stores is the backend selected by STORE_DRIVER.
type stores struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	health  map[string]handlers.Pinger
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		pool := pg.PoolHandle()
		return &stores{
			tickets: repository.NewTicketRepository(pool),
			users:   repository.NewUserRepository(pool),
			health:  map[string]handlers.Pinger{"postgres": pg},
			close:   pg.Close,
		}, nil

	case config.StoreDriverMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		tickets := repository.NewMongoTicketRepository(mg.Database)
		users := repository.NewMongoUserRepository(mg.Database)
		if err := tickets.EnsureIndexes(ctx); err != nil {
			mg.Close(ctx)
			return nil, fmt.Errorf("ticket indexes: %w", err)
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			mg.Close(ctx)
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		return &stores{
			tickets: tickets,
			users:   users,
			health:  map[string]handlers.Pinger{"mongo": mg},
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mg.Close(closeCtx)
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			tickets: repository.NewMemoryTicketRepository(),
			users:   repository.NewMemoryUserRepository(),
			health:  map[string]handlers.Pinger{},
			close:   func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
