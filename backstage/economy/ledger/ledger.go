package ledger

import (
	"errors"
	"time"

	"github.com/velvetradio/backstage/backstage/database/models"
)

var (
	// ErrInvalidAmount is returned for negative grant or spend amounts.
	ErrInvalidAmount = errors.New("ledger: amount must be non-negative")
	// ErrInsufficientCredits is returned when a spend exceeds the balance.
	ErrInsufficientCredits = errors.New("ledger: insufficient credits")
	// ErrRenewalNotEligible is returned for renewals inside the renewal
	// window or on the free tier. Callers must surface it, not absorb it.
	ErrRenewalNotEligible = errors.New("ledger: renewal not eligible")
)

// Tier is the subscription tier, an external input read-only to the engine.
type Tier string

const (
	TierFree  Tier = "free"
	TierTwo   Tier = "tier2"
	TierThree Tier = "tier3"
	TierPro   Tier = "pro"
)

// Config holds the ledger tunables.
type Config struct {
	// RenewalPeriod is a fixed duration, not calendar months.
	RenewalPeriod time.Duration

	// MonthlyCredits maps paid tiers to their renewal grant.
	MonthlyCredits map[Tier]int64
}

func NewDefaultConfig() Config {
	return Config{
		RenewalPeriod: 30 * 24 * time.Hour,
		MonthlyCredits: map[Tier]int64{
			TierTwo:   500,
			TierThree: 1500,
			TierPro:   4000,
		},
	}
}

// Ledger applies credit operations to a progression record while
// holding the invariant credits == totalEarned - totalSpent.
type Ledger struct {
	cfg Config
}

func New(cfg Config) *Ledger {
	return &Ledger{cfg: cfg}
}

// Grant increases the balance and lifetime earned total.
func (l *Ledger) Grant(p *models.UserProgression, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	p.Credits += amount
	p.TotalCreditsEarned += amount
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Spend decreases the balance and increases the lifetime spent total.
// The balance never goes negative.
func (l *Ledger) Spend(p *models.UserProgression, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if amount > p.Credits {
		return ErrInsufficientCredits
	}
	p.Credits -= amount
	p.TotalCreditsSpent += amount
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// RenewalEligible reports whether a renewal may be granted at now:
// a paid tier that has either never renewed or whose last renewal is at
// least one full renewal period old.
func (l *Ledger) RenewalEligible(p *models.UserProgression, now time.Time) bool {
	if Tier(p.SubscriptionTier) == TierFree {
		return false
	}
	if p.LastCreditRenewal == nil {
		return true
	}
	return now.Sub(*p.LastCreditRenewal) >= l.cfg.RenewalPeriod
}

// Renew grants the tier's monthly amount and stamps the renewal time.
// A second call inside the window fails with ErrRenewalNotEligible.
func (l *Ledger) Renew(p *models.UserProgression, now time.Time, tierMonthlyAmount int64) (int64, error) {
	if !l.RenewalEligible(p, now) {
		return 0, ErrRenewalNotEligible
	}
	if err := l.Grant(p, tierMonthlyAmount); err != nil {
		return 0, err
	}
	ts := now
	p.LastCreditRenewal = &ts
	return tierMonthlyAmount, nil
}

// MonthlyAmount returns the configured renewal grant for a tier, 0 for
// free or unknown tiers.
func (l *Ledger) MonthlyAmount(tier Tier) int64 {
	return l.cfg.MonthlyCredits[tier]
}
