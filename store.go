package trustlist

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Store is the durable trust state for all accounts: per-asset user
// overrides plus the show-unverified preference. All operations are
// synchronous; a read taken after a write observes it.
type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Trust records the user's decision to treat the asset as safe. Calling
// it again, or after Hide, overwrites the previous decision.
func (s *Store) Trust(account uuid.UUID, key AssetKey) error {
	return s.writeOverride(account, key, DecisionTrusted)
}

// Hide records the user's decision to never show the asset. It wins
// over curated-list membership until cleared.
func (s *Store) Hide(account uuid.UUID, key AssetKey) error {
	return s.writeOverride(account, key, DecisionHidden)
}

func (s *Store) writeOverride(account uuid.UUID, key AssetKey, decision Decision) error {
	if account == uuid.Nil {
		return ErrInvalidAccount
	}

	if key.Chain == "" {
		return ErrUnknownAsset
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return saveOverride(txn, &Override{
			Account:   account,
			Key:       key,
			Decision:  decision,
			UpdatedAt: time.Now(),
		})
	})
}

// ClearOverride removes any decision for the asset; it falls back to
// its curated-list tier on the next read. Clearing an asset with no
// override is a no-op.
func (s *Store) ClearOverride(account uuid.UUID, key AssetKey) error {
	if account == uuid.Nil {
		return ErrInvalidAccount
	}

	if key.Chain == "" {
		return ErrUnknownAsset
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return deleteOverride(txn, account, key)
	})
}

func (s *Store) SetShowUnverified(account uuid.UUID, show bool) error {
	if account == uuid.Nil {
		return ErrInvalidAccount
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return savePreference(txn, account, show)
	})
}

// Snapshot reads the account's overrides and preference in one txn.
func (s *Store) Snapshot(account uuid.UUID) (*Snapshot, error) {
	if account == uuid.Nil {
		return nil, ErrInvalidAccount
	}

	snap := &Snapshot{Account: account}

	if err := s.db.View(func(txn *badger.Txn) error {
		overrides, err := listOverrides(txn, account)
		if err != nil {
			return err
		}

		show, err := getPreference(txn, account)
		if err != nil {
			return err
		}

		snap.Overrides = overrides
		snap.ShowUnverified = show
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}
