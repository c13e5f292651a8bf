package models

import "time"

// Integration is one entry in the integrations catalog.
type Integration struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"` // calendar, messaging, crm, telephony
	Description string `json:"description"`
	Status      string `json:"status"` // available, connected, pending
}

// PairingSession is returned when connecting an integration that pairs by
// scanning a code (e.g. the business WhatsApp line).
type PairingSession struct {
	IntegrationID string    `json:"integration_id"`
	QRPayload     string    `json:"qr_payload"`
	ExpiresAt     time.Time `json:"expires_at"`
	Status        string    `json:"status"` // pending, linked, expired
}
