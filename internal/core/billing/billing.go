// Package billing shapes plan and subscription data for the billing page.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frontdeskhq/console/internal/models"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"IDR": "Rp",
}

// FormatPrice renders a monthly price like $49/mo. Whole amounts drop the
// cents.
func FormatPrice(price decimal.Decimal, currency string) string {
	sym, ok := currencySymbols[currency]
	if !ok {
		sym = currency + " "
	}
	if price.IsZero() {
		return "Free"
	}
	if price.Equal(price.Truncate(0)) {
		return fmt.Sprintf("%s%s/mo", sym, price.Truncate(0).String())
	}
	return fmt.Sprintf("%s%s/mo", sym, price.StringFixed(2))
}

// PlanByID finds a plan in the listing.
func PlanByID(plans []models.Plan, id string) (models.Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}

// UsagePercent reports how much of the plan's call allowance is used,
// clamped to [0,100]. Unlimited plans (allowance 0) always read 0.
func UsagePercent(sub models.Subscription, plan models.Plan) int {
	if plan.CallAllowance <= 0 {
		return 0
	}
	pct := sub.CallsUsed * 100 / plan.CallAllowance
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// StatusLine is the one-sentence subscription summary on the billing page.
func StatusLine(sub models.Subscription, now time.Time) string {
	switch sub.Status {
	case "trialing":
		if sub.TrialEndsAt != nil {
			days := int(sub.TrialEndsAt.Sub(now).Hours() / 24)
			if days < 0 {
				days = 0
			}
			return fmt.Sprintf("Trial, %d days left", days)
		}
		return "Trial"
	case "active":
		if sub.RenewsAt != nil {
			return fmt.Sprintf("Active, renews %s", sub.RenewsAt.Format("Jan 2"))
		}
		return "Active"
	case "past_due":
		return "Payment past due"
	case "cancelled":
		return "Cancelled"
	default:
		return sub.Status
	}
}
