package trustlist

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestStoreTrustHideClear(t *testing.T) {
	store := NewStore(newTestDB(t))

	account := uuid.New()
	key := NewAssetKey(ethChain, bananaHex)

	if err := store.Trust(account, key); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	o, ok := snap.override(key)
	if !ok || o.Decision != DecisionTrusted {
		t.Fatalf("expected trusted override, got %+v", o)
	}

	// hide overwrites, never merges
	if err := store.Hide(account, key); err != nil {
		t.Fatal(err)
	}

	snap, err = store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Overrides) != 1 {
		t.Fatalf("expected a single override, got %d", len(snap.Overrides))
	}

	if o, _ := snap.override(key); o.Decision != DecisionHidden {
		t.Fatalf("expected hidden, got %s", o.Decision)
	}

	if err := store.ClearOverride(account, key); err != nil {
		t.Fatal(err)
	}

	snap, err = store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Overrides) != 0 {
		t.Fatalf("override survived clear: %+v", snap.Overrides)
	}

	// clearing again is a no-op
	if err := store.ClearOverride(account, key); err != nil {
		t.Fatal(err)
	}
}

func TestStoreHideIdempotent(t *testing.T) {
	store := NewStore(newTestDB(t))

	account := uuid.New()
	key := NewAssetKey(ethChain, bananaHex)

	if err := store.Hide(account, key); err != nil {
		t.Fatal(err)
	}
	if err := store.Hide(account, key); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Overrides) != 1 {
		t.Fatalf("expected a single override, got %d", len(snap.Overrides))
	}
}

func TestStoreInvalidAccount(t *testing.T) {
	store := NewStore(newTestDB(t))
	key := NewAssetKey(ethChain, bananaHex)

	if err := store.Trust(uuid.Nil, key); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}

	if err := store.Hide(uuid.New(), AssetKey{}); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("expected ErrUnknownAsset, got %v", err)
	}

	if _, err := store.Snapshot(uuid.Nil); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestStorePreference(t *testing.T) {
	store := NewStore(newTestDB(t))
	account := uuid.New()

	snap, err := store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	if snap.ShowUnverified {
		t.Fatal("preference should default to off")
	}

	if err := store.SetShowUnverified(account, true); err != nil {
		t.Fatal(err)
	}

	snap, err = store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	if !snap.ShowUnverified {
		t.Fatal("preference not persisted")
	}

	// per account, not global
	other, err := store.Snapshot(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	if other.ShowUnverified {
		t.Fatal("preference leaked across accounts")
	}
}

// overrides are scoped to the account that wrote them
func TestStoreAccountIsolation(t *testing.T) {
	store := NewStore(newTestDB(t))

	a, b := uuid.New(), uuid.New()
	key := NewAssetKey(ethChain, daiAsset)

	if err := store.Hide(a, key); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Snapshot(b)
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Overrides) != 0 {
		t.Fatalf("override leaked across accounts: %+v", snap.Overrides)
	}
}

// an override written while the asset has no balance takes effect when
// the asset reappears in a later batch
func TestStoreOverrideWithoutBalance(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	account := uuid.New()
	key := NewAssetKey(ethChain, bananaHex)

	if err := store.Trust(account, key); err != nil {
		t.Fatal(err)
	}

	batch := &BalanceBatch{
		Account:   account,
		UpdatedAt: time.Now(),
		Assets:    []*AssetAmount{amount(key, "BANANA", 1)},
	}

	if err := SaveBalances(db, batch); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Snapshot(account)
	if err != nil {
		t.Fatal(err)
	}

	found, err := FindBalances(db, account)
	if err != nil {
		t.Fatal(err)
	}

	view, err := BuildView(SurfaceSend, found.Assets, newStaticList(), snap)
	if err != nil {
		t.Fatal(err)
	}

	if len(view.Entries) != 1 || view.Entries[0].Tier != TierUserTrusted {
		t.Fatalf("expected trusted BANANA on send picker, got %+v", view.Entries)
	}
}

func TestBalanceBatchSupersedes(t *testing.T) {
	db := newTestDB(t)
	account := uuid.New()

	first := &BalanceBatch{
		Account:   account,
		UpdatedAt: time.Now(),
		Assets: []*AssetAmount{
			amount(NewAssetKey(ethChain, daiAsset), "DAI", 100),
			amount(NewAssetKey(ethChain, bananaHex), "BANANA", 1),
		},
	}

	if err := SaveBalances(db, first); err != nil {
		t.Fatal(err)
	}

	second := &BalanceBatch{
		Account:   account,
		UpdatedAt: time.Now(),
		Assets: []*AssetAmount{
			amount(NewAssetKey(ethChain, daiAsset), "DAI", 42),
		},
	}

	if err := SaveBalances(db, second); err != nil {
		t.Fatal(err)
	}

	found, err := FindBalances(db, account)
	if err != nil {
		t.Fatal(err)
	}

	if len(found.Assets) != 1 {
		t.Fatalf("old batch not superseded: %d assets", len(found.Assets))
	}

	if !found.Assets[0].Amount.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("unexpected amount %s", found.Assets[0].Amount)
	}
}

func TestJobRoundTrip(t *testing.T) {
	db := newTestDB(t)

	user := &User{ID: uuid.New(), Token: "token"}
	if err := enqueueJob(db, user, time.Minute); err != nil {
		t.Fatal(err)
	}

	// rewriting the job for the same account must not duplicate it
	if err := enqueueJob(db, user, time.Minute); err != nil {
		t.Fatal(err)
	}

	jobs, err := ListJobs(db)
	if err != nil {
		t.Fatal(err)
	}

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	if jobs[0].Account != user.ID || jobs[0].Token != user.Token {
		t.Fatalf("job mismatch: %+v", jobs[0])
	}
}

func TestOverrideJSONRoundTrip(t *testing.T) {
	key := NewAssetKey(ethChain, daiAsset)

	o := &Override{
		Account:   uuid.New(),
		Key:       key,
		Decision:  DecisionHidden,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	db := newTestDB(t)
	if err := db.Update(func(txn *badger.Txn) error {
		return saveOverride(txn, o)
	}); err != nil {
		t.Fatal(err)
	}

	var got map[string]*Override
	if err := db.View(func(txn *badger.Txn) error {
		var err error
		got, err = listOverrides(txn, o.Account)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(got[key.String()].Key, key) {
		t.Fatalf("key mismatch: %+v", got)
	}
}
