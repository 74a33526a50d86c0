package trustlist

import (
	"crypto/sha256"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetKey is the immutable identity of a fungible asset: the chain it
// lives on plus its contract address, or the chain id itself for the
// chain's native coin. Overrides and curated-list lookups are keyed by
// this identity, never by display symbol.
type AssetKey struct {
	Chain string `json:"chain"`
	Asset string `json:"asset"`
}

func NewAssetKey(chain, asset string) AssetKey {
	chain = strings.ToLower(strings.TrimSpace(chain))
	asset = strings.ToLower(strings.TrimSpace(asset))

	if asset == "" {
		asset = chain
	}

	return AssetKey{Chain: chain, Asset: asset}
}

func (k AssetKey) String() string {
	return k.Chain + "/" + k.Asset
}

// Native reports whether the key names the chain's base coin.
func (k AssetKey) Native() bool {
	return k.Asset == k.Chain
}

func (k AssetKey) hash() [32]byte {
	return sha256.Sum256([]byte(k.String()))
}

type Decision string

const (
	DecisionTrusted Decision = "trusted"
	DecisionHidden  Decision = "hidden"
)

// Override records an explicit user decision for one asset. It is
// overwritten, never merged, when the user changes their mind, and it
// never expires on its own.
type Override struct {
	Account   uuid.UUID `json:"account"`
	Key       AssetKey  `json:"key"`
	Decision  Decision  `json:"decision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a read-only view of one account's trust state, taken in a
// single transaction so every surface derives visibility from the same
// decisions.
type Snapshot struct {
	Account        uuid.UUID            `json:"account"`
	Overrides      map[string]*Override `json:"overrides"`
	ShowUnverified bool                 `json:"show_unverified"`
}

func (s *Snapshot) override(key AssetKey) (*Override, bool) {
	o, ok := s.Overrides[key.String()]
	return o, ok
}

// AssetAmount pairs an asset with its balance from one refresh cycle.
// A later refresh supersedes it entirely.
type AssetAmount struct {
	Key       AssetKey        `json:"key"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	FiatValue decimal.Decimal `json:"fiat_value"`
}

// BalanceBatch is the latest set of balances known for an account.
type BalanceBatch struct {
	Account   uuid.UUID      `json:"account"`
	UpdatedAt time.Time      `json:"updated_at"`
	Assets    []*AssetAmount `json:"assets"`
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"-"`
}
