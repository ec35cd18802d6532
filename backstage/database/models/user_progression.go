package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserProgression tracks a user's experience, influence and credit
// economy. Level and capability flags are derived on read, never stored.
type UserProgression struct {
	bun.BaseModel `bun:"table:user_progressions,alias:up"`

	ID     int64  `bun:"id,pk,autoincrement"`
	UserID string `bun:"user_id,notnull,unique"`

	Experience int64 `bun:"experience,notnull,default:0"`
	Influence  int64 `bun:"influence,notnull,default:0"`

	// Credit economy. Invariant: Credits == TotalCreditsEarned - TotalCreditsSpent.
	Credits            int64 `bun:"credits,notnull,default:0"`
	TotalCreditsEarned int64 `bun:"total_credits_earned,notnull,default:0"`
	TotalCreditsSpent  int64 `bun:"total_credits_spent,notnull,default:0"`

	SubscriptionTier  string     `bun:"subscription_tier,notnull,default:'free'"`
	LastCreditRenewal *time.Time `bun:"last_credit_renewal"`

	// Optimistic concurrency control, bumped on every save.
	Version int64 `bun:"version,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
