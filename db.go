package trustlist

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	g "github.com/pandodao/generic"
)

var (
	overridePrefix = []byte("o:")
	prefPrefix     = []byte("p:")
	balancePrefix  = []byte("b:")
	jobPrefix      = []byte("j:")
)

func overrideKey(account uuid.UUID, key AssetKey) []byte {
	h := key.hash()
	return append(buildIndexKey(overridePrefix, account), h[:]...)
}

func saveOverride(txn *badger.Txn, o *Override) error {
	pk := overrideKey(o.Account, o.Key)

	e := badger.NewEntry(pk, g.Must(json.Marshal(o)))
	return txn.SetEntry(e)
}

func deleteOverride(txn *badger.Txn, account uuid.UUID, key AssetKey) error {
	err := txn.Delete(overrideKey(account, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}

	return err
}

func listOverrides(txn *badger.Txn, account uuid.UUID) (map[string]*Override, error) {
	prefix := buildIndexKey(overridePrefix, account)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchSize = 64
	it := txn.NewIterator(opts)
	defer it.Close()

	overrides := make(map[string]*Override)

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()

		var o Override
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &o)
		}); err != nil {
			return nil, err
		}

		overrides[o.Key.String()] = &o
	}

	return overrides, nil
}

func savePreference(txn *badger.Txn, account uuid.UUID, show bool) error {
	pk := buildIndexKey(prefPrefix, account)

	e := badger.NewEntry(pk, g.Must(json.Marshal(show)))
	return txn.SetEntry(e)
}

func getPreference(txn *badger.Txn, account uuid.UUID) (bool, error) {
	item, err := txn.Get(buildIndexKey(prefPrefix, account))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}

		return false, err
	}

	var show bool
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &show)
	}); err != nil {
		return false, err
	}

	return show, nil
}

func saveBalances(txn *badger.Txn, batch *BalanceBatch) error {
	pk := buildIndexKey(balancePrefix, batch.Account)

	b, err := json.Marshal(batch)
	if err != nil {
		panic(err)
	}

	e := badger.NewEntry(pk, b)
	return txn.SetEntry(e)
}

func findBalances(txn *badger.Txn, account uuid.UUID) (*BalanceBatch, error) {
	item, err := txn.Get(buildIndexKey(balancePrefix, account))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return &BalanceBatch{Account: account}, nil
		}

		return nil, err
	}

	var batch BalanceBatch
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &batch)
	}); err != nil {
		return nil, err
	}

	return &batch, nil
}

func FindBalances(db *badger.DB, account uuid.UUID) (*BalanceBatch, error) {
	txn := db.NewTransaction(false)
	defer txn.Discard()

	return findBalances(txn, account)
}

func SaveBalances(db *badger.DB, batch *BalanceBatch) error {
	txn := db.NewTransaction(true)
	defer txn.Discard()

	if err := saveBalances(txn, batch); err != nil {
		return err
	}

	return txn.Commit()
}

func saveJob(txn *badger.Txn, job *Job, ttl time.Duration) error {
	pk := buildIndexKey(jobPrefix, job.Account)

	b, err := json.Marshal(job)
	if err != nil {
		panic(err)
	}

	e := badger.NewEntry(pk, b).WithTTL(ttl)
	return txn.SetEntry(e)
}

func listJobs(txn *badger.Txn) ([]*Job, error) {
	var jobs []*Job

	opts := badger.DefaultIteratorOptions
	opts.PrefetchSize = 10
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(jobPrefix); it.ValidForPrefix(jobPrefix); it.Next() {
		item := it.Item()

		var job Job
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &job)
		})

		if err != nil {
			return nil, err
		}

		jobs = append(jobs, &job)
	}

	return jobs, nil
}

func ListJobs(db *badger.DB) ([]*Job, error) {
	txn := db.NewTransaction(false)
	defer txn.Discard()

	return listJobs(txn)
}
