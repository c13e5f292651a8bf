// Package mockapi is the development stand-in for the FrontDesk backend.
// It serves the same routes and JSON shapes the console's client expects,
// backed by a local sqlite file with seeded demo data, so the console can be
// exercised end to end without the real service.
package mockapi

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Account is a tenant that can sign in to the console.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:text;unique;not null" json:"email"`
	Name         string    `gorm:"type:text" json:"name"`
	BusinessName string    `gorm:"type:text" json:"business_name"`
	PasswordHash string    `gorm:"type:text" json:"-"`
	Plan         string    `gorm:"type:text;default:'starter'" json:"plan"`

	RefreshToken          string     `gorm:"type:text" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	OnboardedAt *time.Time `json:"onboarded_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// ProfileRecord is the stored receptionist configuration for one account.
// List fields live in JSON columns so the whole document round-trips without
// join tables.
type ProfileRecord struct {
	AccountID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"account_id"`
	BusinessName        string         `gorm:"type:text" json:"business_name"`
	BusinessPhoneNumber string         `gorm:"type:text" json:"business_phone_number"`
	BusinessOverview    string         `gorm:"type:text" json:"business_overview"`
	CoreServices        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"core_services"`
	FAQEntries          datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"faq_entries"`
	Greeting            string         `gorm:"type:text" json:"greeting"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProfileRecord) TableName() string { return "agent_profiles" }

// CallRecord is one handled call in the inbox.
type CallRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"account_id"`
	CallerName      string         `gorm:"type:text" json:"caller_name"`
	CallerNumber    string         `gorm:"type:text" json:"caller_number"`
	StartedAt       time.Time      `gorm:"index:,sort:desc" json:"started_at"`
	DurationSeconds int            `gorm:"default:0" json:"duration_seconds"`
	Outcome         string         `gorm:"type:text;index" json:"outcome"` // answered, booked, voicemail, missed
	Summary         string         `gorm:"type:text" json:"summary"`
	Transcript      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"transcript"`
	Notes           string         `gorm:"type:text" json:"notes"`
	HasRecording    bool           `gorm:"default:false" json:"has_recording"`
	Unread          bool           `gorm:"default:true;index" json:"unread"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CallRecord) TableName() string { return "calls" }

// LayoutRecord is the saved call-detail section layout for one account.
type LayoutRecord struct {
	AccountID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"account_id"`
	SectionOrder      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"section_order"`
	CollapsedSections datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"collapsed_sections"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LayoutRecord) TableName() string { return "call_layout_preferences" }

// SubscriptionRecord is the account's current billing state.
type SubscriptionRecord struct {
	AccountID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"account_id"`
	PlanID      string     `gorm:"type:text;not null" json:"plan_id"`
	Status      string     `gorm:"type:text;not null;default:'trialing'" json:"status"`
	RenewsAt    *time.Time `json:"renews_at,omitempty"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	CallsUsed   int        `gorm:"default:0" json:"calls_used"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SubscriptionRecord) TableName() string { return "subscriptions" }

// IntegrationRecord is one row of the per-account integrations catalog.
type IntegrationRecord struct {
	Slug        string    `gorm:"type:text;primaryKey" json:"slug"`
	AccountID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"account_id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Category    string    `gorm:"type:text;not null" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:text;not null;default:'available'" json:"status"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IntegrationRecord) TableName() string { return "integrations" }
