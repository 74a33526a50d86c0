package trustlist

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

type Surface uint8

const (
	SurfaceWallet Surface = iota
	SurfaceSend
	SurfaceSwap
)

func ParseSurface(s string) (Surface, error) {
	switch s {
	case "", "wallet":
		return SurfaceWallet, nil
	case "send":
		return SurfaceSend, nil
	case "swap":
		return SurfaceSwap, nil
	default:
		return SurfaceWallet, fmt.Errorf("unknown surface %q", s)
	}
}

func (s Surface) String() string {
	switch s {
	case SurfaceSend:
		return "send"
	case SurfaceSwap:
		return "swap"
	default:
		return "wallet"
	}
}

type Bucket uint8

const (
	BucketPrimary Bucket = iota
	BucketHidden
	BucketExcluded
)

func (b Bucket) String() string {
	switch b {
	case BucketHidden:
		return "hidden"
	case BucketExcluded:
		return "excluded"
	default:
		return "primary"
	}
}

type Visibility struct {
	Shown  bool
	Bucket Bucket
}

// VisibleOn decides whether an asset of the given tier appears on a
// surface. The wallet list gates unverified assets on the account
// preference; the send and swap pickers never show them regardless of
// the preference, so an asset cannot become a transaction input without
// an explicit trust decision.
func VisibleOn(surface Surface, tier TrustTier, showUnverified bool) Visibility {
	switch tier {
	case TierBase, TierKnownVerified, TierUserTrusted:
		return Visibility{Shown: true, Bucket: BucketPrimary}
	case TierUserHidden:
		return Visibility{Bucket: BucketExcluded}
	}

	// unverified
	if surface == SurfaceWallet && showUnverified {
		return Visibility{Shown: true, Bucket: BucketHidden}
	}

	return Visibility{Bucket: BucketExcluded}
}

type Entry struct {
	*AssetAmount

	Tier   TrustTier `json:"tier"`
	Bucket string    `json:"bucket"`
}

// View is the ordered asset list one surface renders, plus the count
// behind the "see unverified assets (N)" control. The count tracks
// every unverified asset whether or not the preference lets it render.
type View struct {
	Surface         string    `json:"surface"`
	Entries         []*Entry  `json:"entries"`
	UnverifiedCount int       `json:"unverified_count"`
	Snapshot        *Snapshot `json:"-"`
}

// BuildView joins a balance batch with the account's current trust
// snapshot. Duplicate asset keys in the batch collapse to the first
// occurrence; two assets sharing a symbol stay distinct.
func BuildView(surface Surface, amounts []*AssetAmount, curated CuratedMembership, snap *Snapshot) (*View, error) {
	view := &View{
		Surface:  surface.String(),
		Snapshot: snap,
	}

	seen := mapset.New[string]()

	var primary, bucketed []*Entry

	for _, amount := range amounts {
		if seen.Has(amount.Key.String()) {
			continue
		}
		seen.Put(amount.Key.String())

		tier, err := Classify(amount.Key, curated, snap)
		if err != nil {
			return nil, err
		}

		if tier == TierUnverified {
			view.UnverifiedCount++
		}

		v := VisibleOn(surface, tier, snap.ShowUnverified)
		if !v.Shown {
			continue
		}

		e := &Entry{
			AssetAmount: amount,
			Tier:        tier,
			Bucket:      v.Bucket.String(),
		}

		if v.Bucket == BucketHidden {
			bucketed = append(bucketed, e)
		} else {
			primary = append(primary, e)
		}
	}

	sortEntries(primary)
	sortEntries(bucketed)

	view.Entries = append(primary, bucketed...)
	return view, nil
}

// base coins first, then richest first, symbol as tie break
func sortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if a.Key.Native() != b.Key.Native() {
			return a.Key.Native()
		}

		if !a.FiatValue.Equal(b.FiatValue) {
			return a.FiatValue.GreaterThan(b.FiatValue)
		}

		return a.Symbol < b.Symbol
	})
}
