package trustlist

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Job asks the background loop to refresh one account's balances. Jobs
// are written with a TTL on every list request, so balances stay fresh
// while the account is active and syncing stops once the TTL lapses.
type Job struct {
	CreatedAt time.Time `json:"created_at"`
	Account   uuid.UUID `json:"account"`
	Token     string    `json:"token"`
}

func (s *Server) HandlePendingJobs(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.SyncInterval):
		}

		jobs, err := ListJobs(s.db)
		if err != nil {
			slog.Error("list jobs failed", slog.Any("err", err))
			continue
		}

		for _, job := range jobs {
			if err := s.handleJob(ctx, job); err != nil {
				slog.Error("handle job failed",
					slog.String("account", job.Account.String()),
					slog.Any("err", err),
				)
			}
		}
	}
}

func (s *Server) handleJob(ctx context.Context, job *Job) error {
	amounts, err := s.source.PullBalances(ctx, &User{ID: job.Account, Token: job.Token})
	if err != nil {
		return err
	}

	batch := &BalanceBatch{
		Account:   job.Account,
		UpdatedAt: time.Now(),
		Assets:    amounts,
	}

	if err := SaveBalances(s.db, batch); err != nil {
		return err
	}

	slog.Info("balances refreshed",
		slog.String("account", job.Account.String()),
		slog.Int("assets", len(amounts)),
	)

	return nil
}

func enqueueJob(db *badger.DB, user *User, ttl time.Duration) error {
	return db.Update(func(txn *badger.Txn) error {
		return saveJob(txn, &Job{
			CreatedAt: time.Now(),
			Account:   user.ID,
			Token:     user.Token,
		}, ttl)
	})
}
