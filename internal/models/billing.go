package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is one subscription tier shown on the billing screen.
type Plan struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PriceMonthly  decimal.Decimal `json:"price_monthly"`
	Currency      string          `json:"currency"`
	CallAllowance int             `json:"call_allowance"` // calls per month, 0 = unlimited
	Features      []string        `json:"features"`
}

// Subscription is the tenant's current plan state.
type Subscription struct {
	PlanID      string     `json:"plan_id"`
	Status      string     `json:"status"` // trialing, active, past_due, cancelled
	RenewsAt    *time.Time `json:"renews_at,omitempty"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	CallsUsed   int        `json:"calls_used"`
}
