package billing

import (
	"errors"

	"github.com/velvetradio/backstage/backstage/economy/ledger"
)

// ErrUnknownTier is returned for tier identifiers outside the catalog.
var ErrUnknownTier = errors.New("billing: unknown tier")

// ChangeResult describes a validated tier change intent. The engine
// reads tiers, it never mutates them; the actual subscription switch
// happens in the upstream billing system.
type ChangeResult struct {
	Tier           ledger.Tier
	MonthlyCredits int64
}

// Catalog validates tier identifiers against the ledger configuration.
type Catalog struct {
	ledger *ledger.Ledger
}

func NewCatalog(l *ledger.Ledger) *Catalog {
	return &Catalog{ledger: l}
}

// ValidateChange resolves a raw tier identifier into a change intent.
func (c *Catalog) ValidateChange(rawTier string) (*ChangeResult, error) {
	tier := ledger.Tier(rawTier)
	switch tier {
	case ledger.TierFree:
		return &ChangeResult{Tier: tier}, nil
	case ledger.TierTwo, ledger.TierThree, ledger.TierPro:
		return &ChangeResult{
			Tier:           tier,
			MonthlyCredits: c.ledger.MonthlyAmount(tier),
		}, nil
	default:
		return nil, ErrUnknownTier
	}
}
