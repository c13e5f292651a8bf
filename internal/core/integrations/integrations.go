// Package integrations lists the connectable services and runs the QR
// pairing flow for the ones that link through a phone app.
package integrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/frontdeskhq/console/internal/models"
)

// Backend is the slice of the API this page needs.
type Backend interface {
	ListIntegrations(ctx context.Context) ([]models.Integration, error)
	StartPairing(ctx context.Context, integrationID string) (models.PairingSession, error)
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// CategoryGroup keeps one category's integrations together for display.
type CategoryGroup struct {
	Category string
	Items    []models.Integration
}

var categoryOrder = []string{"telephony", "calendar", "messaging", "crm"}

// List returns the integrations grouped by category in display order.
// Unknown categories go last in the order they arrive.
func (s *Service) List(ctx context.Context) ([]CategoryGroup, error) {
	items, err := s.backend.ListIntegrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	byCat := map[string][]models.Integration{}
	var extras []string
	for _, it := range items {
		if _, known := byCat[it.Category]; !known && !knownCategory(it.Category) {
			extras = append(extras, it.Category)
		}
		byCat[it.Category] = append(byCat[it.Category], it)
	}

	groups := make([]CategoryGroup, 0, len(byCat))
	for _, cat := range append(append([]string(nil), categoryOrder...), extras...) {
		if items, ok := byCat[cat]; ok {
			groups = append(groups, CategoryGroup{Category: cat, Items: items})
			delete(byCat, cat)
		}
	}
	return groups, nil
}

func knownCategory(cat string) bool {
	for _, c := range categoryOrder {
		if c == cat {
			return true
		}
	}
	return false
}

// Pair starts a pairing session and renders its payload as a terminal QR
// block.
func (s *Service) Pair(ctx context.Context, integrationID string) (models.PairingSession, string, error) {
	ps, err := s.backend.StartPairing(ctx, integrationID)
	if err != nil {
		return models.PairingSession{}, "", fmt.Errorf("failed to start pairing: %w", err)
	}
	block, err := QRBlock(ps.QRPayload)
	if err != nil {
		return models.PairingSession{}, "", err
	}
	return ps, block, nil
}

// QRBlock renders a payload as a compact half-height QR for the terminal.
func QRBlock(payload string) (string, error) {
	if payload == "" {
		return "", errors.New("empty pairing payload")
	}
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR: %w", err)
	}
	return qr.ToSmallString(false), nil
}

// Expired reports whether the pairing session's QR has run out.
func Expired(ps models.PairingSession, now time.Time) bool {
	return !ps.ExpiresAt.IsZero() && now.After(ps.ExpiresAt)
}
