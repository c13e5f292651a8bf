package mockapi

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/frontdeskhq/console/internal/models"
)

// The store keeps list fields in JSON columns; the wire format is the typed
// shape the console expects. These helpers translate between the two.

func toProfile(rec *ProfileRecord) models.AgentProfile {
	p := models.AgentProfile{
		BusinessName:        rec.BusinessName,
		BusinessPhoneNumber: rec.BusinessPhoneNumber,
		BusinessOverview:    rec.BusinessOverview,
		Greeting:            rec.Greeting,
		UpdatedAt:           rec.UpdatedAt,
	}
	_ = json.Unmarshal(rec.CoreServices, &p.CoreServices)
	_ = json.Unmarshal(rec.FAQEntries, &p.FAQEntries)
	return p
}

func toCall(rec CallRecord) models.Call {
	return models.Call{
		ID:              rec.ID.String(),
		CallerName:      rec.CallerName,
		CallerNumber:    rec.CallerNumber,
		StartedAt:       rec.StartedAt,
		DurationSeconds: rec.DurationSeconds,
		Outcome:         rec.Outcome,
		Summary:         rec.Summary,
		HasRecording:    rec.HasRecording,
		Unread:          rec.Unread,
	}
}

func toCallDetail(rec *CallRecord) models.CallDetail {
	detail := models.CallDetail{
		Call:  toCall(*rec),
		Notes: rec.Notes,
	}
	_ = json.Unmarshal(rec.Transcript, &detail.Transcript)
	return detail
}

func toLayout(rec *LayoutRecord) models.CallLayoutPreferences {
	var prefs models.CallLayoutPreferences
	_ = json.Unmarshal(rec.SectionOrder, &prefs.SectionOrder)
	_ = json.Unmarshal(rec.CollapsedSections, &prefs.CollapsedSections)
	return prefs
}

func toSubscription(rec *SubscriptionRecord) models.Subscription {
	return models.Subscription{
		PlanID:      rec.PlanID,
		Status:      rec.Status,
		RenewsAt:    rec.RenewsAt,
		TrialEndsAt: rec.TrialEndsAt,
		CallsUsed:   rec.CallsUsed,
	}
}

func toIntegration(rec IntegrationRecord) models.Integration {
	return models.Integration{
		ID:          rec.Slug,
		Name:        rec.Name,
		Category:    rec.Category,
		Description: rec.Description,
		Status:      rec.Status,
	}
}

func toUserInfo(account *Account) models.UserInfo {
	return models.UserInfo{
		ID:           account.ID.String(),
		Email:        account.Email,
		Name:         account.Name,
		BusinessName: account.BusinessName,
		Plan:         account.Plan,
		OnboardedAt:  account.OnboardedAt,
		CreatedAt:    account.CreatedAt,
	}
}

// jsonColumn marshals a value into a JSON column, falling back to the given
// literal when marshalling fails.
func jsonColumn(v interface{}, fallback string) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON(fallback)
	}
	return datatypes.JSON(raw)
}
