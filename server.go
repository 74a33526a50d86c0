package trustlist

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Issuer         string
	JobTTL         time.Duration
	SyncInterval   time.Duration
	ReloadInterval time.Duration
}

type Server struct {
	db      *badger.DB
	store   *Store
	source  BalanceSource
	curated *CuratedList
	cfg     Config
}

func NewServer(
	db *badger.DB,
	source BalanceSource,
	curated *CuratedList,
	cfg Config,
) Server {
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 5 * time.Minute
	}

	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 10 * time.Second
	}

	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = 10 * time.Minute
	}

	return Server{
		db:      db,
		store:   NewStore(db),
		source:  source,
		curated: curated,
		cfg:     cfg,
	}
}

func (s *Server) Run(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		return s.HandlePendingJobs(ctx)
	})

	g.Go(func() error {
		return s.LoopCuratedList(ctx)
	})

	return g.Wait()
}
