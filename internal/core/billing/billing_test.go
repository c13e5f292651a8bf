package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/frontdeskhq/console/internal/models"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "Free", FormatPrice(decimal.Zero, "USD"))
	assert.Equal(t, "$49/mo", FormatPrice(decimal.NewFromInt(49), "USD"))
	assert.Equal(t, "$49.50/mo", FormatPrice(decimal.NewFromFloat(49.5), "USD"))
	assert.Equal(t, "€19/mo", FormatPrice(decimal.NewFromInt(19), "EUR"))
	assert.Equal(t, "CAD 15/mo", FormatPrice(decimal.NewFromInt(15), "CAD"))
}

func TestPlanByID(t *testing.T) {
	plans := []models.Plan{{ID: "starter"}, {ID: "growth"}}

	p, ok := PlanByID(plans, "growth")
	assert.True(t, ok)
	assert.Equal(t, "growth", p.ID)

	_, ok = PlanByID(plans, "enterprise")
	assert.False(t, ok)
}

func TestUsagePercent(t *testing.T) {
	plan := models.Plan{CallAllowance: 200}

	assert.Equal(t, 0, UsagePercent(models.Subscription{CallsUsed: 0}, plan))
	assert.Equal(t, 50, UsagePercent(models.Subscription{CallsUsed: 100}, plan))
	assert.Equal(t, 100, UsagePercent(models.Subscription{CallsUsed: 999}, plan), "overuse clamps")
	assert.Equal(t, 0, UsagePercent(models.Subscription{CallsUsed: 50}, models.Plan{}), "unlimited plans have no meter")
}

func TestStatusLine(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	trialEnd := now.Add(5 * 24 * time.Hour)
	assert.Equal(t, "Trial, 5 days left", StatusLine(models.Subscription{Status: "trialing", TrialEndsAt: &trialEnd}, now))

	expired := now.Add(-24 * time.Hour)
	assert.Equal(t, "Trial, 0 days left", StatusLine(models.Subscription{Status: "trialing", TrialEndsAt: &expired}, now))

	renews := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Active, renews Sep 1", StatusLine(models.Subscription{Status: "active", RenewsAt: &renews}, now))

	assert.Equal(t, "Payment past due", StatusLine(models.Subscription{Status: "past_due"}, now))
	assert.Equal(t, "Cancelled", StatusLine(models.Subscription{Status: "cancelled"}, now))
}
