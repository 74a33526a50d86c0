package trustlist

import "fmt"

// TrustTier classifies an asset for one account. Tiers are mutually
// exclusive and totally ordered by precedence: a higher tier always wins
// when more than one signal applies, so an explicit hide survives the
// asset later joining the curated list.
type TrustTier uint8

const (
	TierUnverified TrustTier = iota
	TierBase
	TierKnownVerified
	TierUserTrusted
	TierUserHidden
)

func (t TrustTier) String() string {
	switch t {
	case TierUnverified:
		return "unverified"
	case TierBase:
		return "base"
	case TierKnownVerified:
		return "verified"
	case TierUserTrusted:
		return "trusted"
	case TierUserHidden:
		return "hidden"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

func (t TrustTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TrustTier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unverified":
		*t = TierUnverified
	case "base":
		*t = TierBase
	case "verified":
		*t = TierKnownVerified
	case "trusted":
		*t = TierUserTrusted
	case "hidden":
		*t = TierUserHidden
	default:
		return fmt.Errorf("unknown trust tier %q", b)
	}

	return nil
}
