package mockapi

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frontdeskhq/console/internal/models"
)

// DemoEmail and DemoPassword sign in to the seeded tenant.
const (
	DemoEmail    = "demo@frontdesk.dev"
	DemoPassword = "frontdesk"
)

// PlanCatalog returns the subscription tiers the stub sells.
func PlanCatalog() []models.Plan {
	return []models.Plan{
		{
			ID:            "starter",
			Name:          "Starter",
			PriceMonthly:  decimal.NewFromInt(29),
			Currency:      "USD",
			CallAllowance: 100,
			Features: []string{
				"100 answered calls / month",
				"Call summaries and transcripts",
				"1 phone line",
			},
		},
		{
			ID:            "growth",
			Name:          "Growth",
			PriceMonthly:  decimal.NewFromInt(79),
			Currency:      "USD",
			CallAllowance: 400,
			Features: []string{
				"400 answered calls / month",
				"Calendar booking",
				"WhatsApp handoff",
				"3 phone lines",
			},
		},
		{
			ID:            "scale",
			Name:          "Scale",
			PriceMonthly:  decimal.RequireFromString("199.50"),
			Currency:      "USD",
			CallAllowance: 0,
			Features: []string{
				"Unlimited answered calls",
				"CRM sync",
				"Priority support",
			},
		},
	}
}

// integrationCatalog is the fixed set of integrations every account sees.
var integrationCatalog = []IntegrationRecord{
	{Slug: "twilio-voice", Name: "Twilio Voice", Category: "telephony", Description: "The phone number your receptionist answers on."},
	{Slug: "google-calendar", Name: "Google Calendar", Category: "calendar", Description: "Book appointments straight into your calendar."},
	{Slug: "calcom", Name: "Cal.com", Category: "calendar", Description: "Self-serve scheduling links for callers."},
	{Slug: "whatsapp-business", Name: "WhatsApp Business", Category: "messaging", Description: "Hand missed calls off to a WhatsApp thread. Pairs by QR code."},
	{Slug: "hubspot", Name: "HubSpot", Category: "crm", Description: "Log every call as a CRM activity."},
}

// provisionAccount creates the empty per-account rows a new registration
// needs: a profile stub, a trial subscription and the integrations catalog.
func provisionAccount(store *Store, account *Account) error {
	profile := &ProfileRecord{
		AccountID:    account.ID,
		BusinessName: account.BusinessName,
		CoreServices: jsonColumn([]string{}, "[]"),
		FAQEntries:   jsonColumn([]models.FAQEntry{}, "[]"),
	}
	if err := store.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	trialEnd := time.Now().AddDate(0, 0, 14)
	sub := &SubscriptionRecord{
		AccountID:   account.ID,
		PlanID:      "starter",
		Status:      "trialing",
		TrialEndsAt: &trialEnd,
	}
	if err := store.SaveSubscription(sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	for _, item := range integrationCatalog {
		item.AccountID = account.ID
		item.Status = "available"
		if err := store.SaveIntegration(&item); err != nil {
			return fmt.Errorf("failed to create integration %s: %w", item.Slug, err)
		}
	}
	return nil
}

// Seed creates the demo tenant with two weeks of call history. Safe to call
// on every boot; it does nothing once the tenant exists.
func Seed(store *Store) error {
	if _, err := store.FindAccountByEmail(DemoEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check demo account: %w", err)
	}

	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	onboarded := time.Now().AddDate(0, 0, -21)
	account := &Account{
		ID:           uuid.New(),
		Email:        DemoEmail,
		Name:         "Jordan Avery",
		BusinessName: "Harbor Dental Studio",
		PasswordHash: hash,
		Plan:         "growth",
		OnboardedAt:  &onboarded,
	}
	if err := store.CreateAccount(account); err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}
	if err := provisionAccount(store, account); err != nil {
		return err
	}

	profile := &ProfileRecord{
		AccountID:           account.ID,
		BusinessName:        "Harbor Dental Studio",
		BusinessPhoneNumber: "+1 (415) 555-0137",
		BusinessOverview:    "Family dental practice in the Marina. Checkups, cosmetic work and same-day emergency visits, open Saturdays.",
		CoreServices: jsonColumn([]string{
			"Checkups & cleanings",
			"Teeth whitening",
			"Invisalign consults",
			"Emergency visits",
		}, "[]"),
		FAQEntries: jsonColumn([]models.FAQEntry{
			{Question: "Do you take my insurance?", Answer: "We accept most PPO plans. Bring your card and we'll verify coverage before your visit."},
			{Question: "Where do I park?", Answer: "There's a validated lot on Cervantes Blvd, half a block from the office."},
			{Question: "What are your hours?", Answer: "Weekdays 8am to 6pm, Saturdays 9am to 1pm."},
		}, "[]"),
		Greeting: "Thanks for calling Harbor Dental Studio! This is their automated receptionist. How can I help you today?",
	}
	if err := store.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to seed profile: %w", err)
	}

	renews := time.Now().AddDate(0, 1, 0)
	sub := &SubscriptionRecord{
		AccountID: account.ID,
		PlanID:    "growth",
		Status:    "active",
		RenewsAt:  &renews,
		CallsUsed: 0,
	}
	if err := store.SaveSubscription(sub); err != nil {
		return fmt.Errorf("failed to seed subscription: %w", err)
	}

	for _, slug := range []string{"twilio-voice", "google-calendar"} {
		item, err := store.FindIntegration(account.ID, slug)
		if err != nil {
			return fmt.Errorf("failed to load integration %s: %w", slug, err)
		}
		item.Status = "connected"
		if err := store.SaveIntegration(item); err != nil {
			return fmt.Errorf("failed to connect integration %s: %w", slug, err)
		}
	}

	n, err := seedCalls(store, account.ID)
	if err != nil {
		return err
	}
	sub.CallsUsed = n
	if err := store.SaveSubscription(sub); err != nil {
		return fmt.Errorf("failed to update call usage: %w", err)
	}

	log.Printf("🌱 Seeded demo tenant %s with %d calls (password: %s)", DemoEmail, n, DemoPassword)
	return nil
}

type seedCall struct {
	daysAgo int
	hour    int
	script  int // index into cannedScripts
	unread  bool
}

// seedCalls writes two weeks of history by replaying the canned scripts at
// staggered times. Returns how many calls were written.
func seedCalls(store *Store, accountID uuid.UUID) (int, error) {
	plan := []seedCall{
		{daysAgo: 0, hour: 9, script: 0, unread: true},
		{daysAgo: 0, hour: 11, script: 3, unread: true},
		{daysAgo: 1, hour: 10, script: 1, unread: true},
		{daysAgo: 1, hour: 15, script: 2, unread: false},
		{daysAgo: 2, hour: 9, script: 1, unread: false},
		{daysAgo: 3, hour: 14, script: 0, unread: false},
		{daysAgo: 3, hour: 16, script: 3, unread: false},
		{daysAgo: 4, hour: 10, script: 2, unread: false},
		{daysAgo: 5, hour: 13, script: 0, unread: false},
		{daysAgo: 6, hour: 9, script: 1, unread: false},
		{daysAgo: 7, hour: 11, script: 0, unread: false},
		{daysAgo: 8, hour: 15, script: 2, unread: false},
		{daysAgo: 9, hour: 10, script: 1, unread: false},
		{daysAgo: 10, hour: 14, script: 0, unread: false},
		{daysAgo: 11, hour: 9, script: 3, unread: false},
		{daysAgo: 12, hour: 16, script: 1, unread: false},
		{daysAgo: 13, hour: 10, script: 0, unread: false},
	}

	now := time.Now()
	for _, sc := range plan {
		script := cannedScripts[sc.script]
		day := now.AddDate(0, 0, -sc.daysAgo)
		startedAt := time.Date(day.Year(), day.Month(), day.Day(), sc.hour, 12, 0, 0, day.Location())

		call := &CallRecord{
			ID:              uuid.New(),
			AccountID:       accountID,
			CallerName:      script.callerName,
			CallerNumber:    script.callerNumber,
			StartedAt:       startedAt,
			DurationSeconds: script.duration,
			Outcome:         script.outcome,
			Summary:         script.summary,
			Transcript:      jsonColumn(transcriptFrom(script.turns, startedAt), "[]"),
			HasRecording:    script.outcome == "answered" || script.outcome == "booked",
			Unread:          sc.unread,
		}
		if err := store.CreateCall(call); err != nil {
			return 0, fmt.Errorf("failed to seed call: %w", err)
		}
	}
	return len(plan), nil
}
