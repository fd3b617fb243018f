package pgstore

import (
	"context"
	"fmt"
	"time"

	"salescoach/app/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/samber/oops"
)

var _ do.Shutdownable = (*Store)(nil)

// Store backs the content library, session repository and knowledge base with
// one pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)
	appCtx := do.MustInvoke[context.Context](di)

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s",
		cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Database)

	pool, err := pgxpool.New(appCtx, dsn)
	if err != nil {
		return nil, oops.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(appCtx, 5*time.Second)
	defer cancel()

	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, oops.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Shutdown() error {
	s.pool.Close()

	return nil
}
