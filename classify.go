package trustlist

import "errors"

var (
	// ErrInvalidAccount marks an operation against an account not under
	// wallet management.
	ErrInvalidAccount = errors.New("trustlist: invalid account")

	// ErrUnknownAsset marks an asset with no resolvable chain identity.
	ErrUnknownAsset = errors.New("trustlist: unknown asset")
)

// CuratedMembership is the curated token-list predicate. Implementations
// may lag behind on-chain reality; classification only ever asks for
// membership at read time.
type CuratedMembership interface {
	IsKnown(key AssetKey) bool
}

// Classify tags an asset for the account behind the snapshot.
//
// The order is load-bearing: the native coin is base no matter what, and
// a user override beats curated-list membership in both directions, so
// neither a hide nor a trust decision is undone by list churn.
func Classify(key AssetKey, curated CuratedMembership, snap *Snapshot) (TrustTier, error) {
	if key.Chain == "" {
		return TierUnverified, ErrUnknownAsset
	}

	if key.Native() {
		return TierBase, nil
	}

	if o, ok := snap.override(key); ok {
		if o.Decision == DecisionHidden {
			return TierUserHidden, nil
		}

		return TierUserTrusted, nil
	}

	if curated != nil && curated.IsKnown(key) {
		return TierKnownVerified, nil
	}

	return TierUnverified, nil
}
