package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dgraph-io/badger/v4"
	backend "github.com/fox-one/trustlist"
	"golang.org/x/sync/errgroup"
)

var cfg struct {
	dbPath         string
	listPath       string
	port           int
	issuer         string
	syncInterval   time.Duration
	reloadInterval time.Duration
}

func init() {
	flag.StringVar(&cfg.dbPath, "db", "trustlist.db", "database path")
	flag.StringVar(&cfg.listPath, "list", "tokens.json", "curated token list path")
	flag.IntVar(&cfg.port, "port", 8080, "http port")
	flag.StringVar(&cfg.issuer, "issuer", "", "jwt issuer")
	flag.DurationVar(&cfg.syncInterval, "sync", 10*time.Second, "balance sync interval")
	flag.DurationVar(&cfg.reloadInterval, "reload", 10*time.Minute, "curated list reload interval")

	flag.Parse()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	db, err := badger.Open(badger.DefaultOptions(cfg.dbPath))
	if err != nil {
		slog.Error("open db failed", slog.Any("err", err))
		return
	}

	curated := backend.NewCuratedList(cfg.listPath)
	if err := curated.Load(); err != nil {
		slog.Warn("load curated list failed", slog.Any("err", err))
	}

	slog.Info("trustlist launch", "ver", "0.01", "tokens", curated.Size())

	svr := backend.NewServer(db, backend.MixinBalanceSource{}, curated, backend.Config{
		Issuer:         cfg.issuer,
		SyncInterval:   cfg.syncInterval,
		ReloadInterval: cfg.reloadInterval,
	})

	s := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.port),
		Handler: svr.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http listen", slog.String("addr", s.Addr))
		return s.ListenAndServe()
	})

	g.Go(func() error {
		<-ctx.Done()

		return s.Shutdown(ctx)
	})

	g.Go(func() error {
		return runGC(ctx, db, time.Minute)
	})

	g.Go(func() error {
		return svr.Run(ctx)
	})

	_ = g.Wait()
}

func runGC(ctx context.Context, db *badger.DB, dur time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			_ = db.RunValueLogGC(0.7)
		}
	}
}
