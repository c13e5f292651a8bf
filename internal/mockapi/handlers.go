package mockapi

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/frontdeskhq/console/internal/models"
)

type Handler struct {
	store  *Store
	tokens *TokenService
	sim    *Simulator
}

func NewHandler(store *Store, tokens *TokenService, sim *Simulator) *Handler {
	return &Handler{
		store:  store,
		tokens: tokens,
		sim:    sim,
	}
}

// Auth

func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" || req.Name == "" || req.BusinessName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: email, password, name, business_name",
		})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}

	if _, err := h.store.FindAccountByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "An account with this email already exists",
		})
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Registration failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create account",
		})
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		PasswordHash: hash,
		Plan:         "starter",
	}
	if err := h.store.CreateAccount(account); err != nil {
		log.Printf("❌ Registration failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create account",
		})
	}
	if err := provisionAccount(h.store, account); err != nil {
		log.Printf("❌ Provisioning failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create account",
		})
	}

	resp, err := h.issueTokens(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not issue tokens",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	account, err := h.store.FindAccountByEmail(req.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}
	if err := VerifyPassword(account.PasswordHash, req.Password); err != nil {
		log.Printf("❌ Login failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	resp, err := h.issueTokens(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not issue tokens",
		})
	}
	return c.JSON(resp)
}

func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var req models.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	accountID, err := h.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}
	id, err := uuid.Parse(accountID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}
	account, err := h.store.FindAccountByID(id)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}

	// Rotation: only the most recently issued refresh token is honored.
	if account.RefreshToken != req.RefreshToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Refresh token has been rotated",
		})
	}
	if account.RefreshTokenExpiresAt != nil && account.RefreshTokenExpiresAt.Before(time.Now()) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Refresh token expired",
		})
	}

	resp, err := h.issueTokens(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not issue tokens",
		})
	}
	return c.JSON(resp)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	account, err := h.store.FindAccountByID(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account not found",
		})
	}
	return c.JSON(toUserInfo(account))
}

// CompleteOnboarding stamps the account as onboarded once the setup wizard
// finishes. Repeat calls keep the original timestamp.
func (h *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	account, err := h.store.FindAccountByID(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account not found",
		})
	}
	if account.OnboardedAt == nil {
		now := time.Now()
		account.OnboardedAt = &now
		if err := h.store.UpdateAccount(account); err != nil {
			log.Printf("❌ Failed to mark account onboarded: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update account",
			})
		}
	}
	return c.JSON(toUserInfo(account))
}

// issueTokens mints a fresh access/refresh pair and persists the refresh
// token on the account.
func (h *Handler) issueTokens(account *Account) (*models.AuthResponse, error) {
	access, expiresIn, err := h.tokens.GenerateAccessToken(account.ID.String(), account.Email)
	if err != nil {
		return nil, err
	}
	refresh, refreshExpiry, err := h.tokens.GenerateRefreshToken(account.ID.String())
	if err != nil {
		return nil, err
	}

	account.RefreshToken = refresh
	account.RefreshTokenExpiresAt = &refreshExpiry
	if err := h.store.UpdateAccount(account); err != nil {
		return nil, err
	}

	user := toUserInfo(account)
	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		User:         &user,
	}, nil
}

// Agent profile

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.store.ProfileByAccount(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	return c.JSON(toProfile(profile))
}

func (h *Handler) PutProfile(c *fiber.Ctx) error {
	var req models.AgentProfile
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile := &ProfileRecord{
		AccountID:           accountID(c),
		BusinessName:        req.BusinessName,
		BusinessPhoneNumber: req.BusinessPhoneNumber,
		BusinessOverview:    req.BusinessOverview,
		CoreServices:        jsonColumn(req.CoreServices, "[]"),
		FAQEntries:          jsonColumn(req.FAQEntries, "[]"),
		Greeting:            req.Greeting,
	}
	if err := h.store.SaveProfile(profile); err != nil {
		log.Printf("❌ Profile save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save profile",
		})
	}

	saved, err := h.store.ProfileByAccount(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load saved profile",
		})
	}
	return c.JSON(toProfile(saved))
}

func (h *Handler) PutCoreServices(c *fiber.Ctx) error {
	var req models.CoreServicesUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.store.ProfileByAccount(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	profile.CoreServices = jsonColumn(req.CoreServices, "[]")
	if err := h.store.SaveProfile(profile); err != nil {
		log.Printf("❌ Core services save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save core services",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) PutFAQs(c *fiber.Ctx) error {
	var req models.FAQUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.store.ProfileByAccount(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	profile.FAQEntries = jsonColumn(req.FAQEntries, "[]")
	if err := h.store.SaveProfile(profile); err != nil {
		log.Printf("❌ FAQ save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save FAQ entries",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Calls

func (h *Handler) ListCalls(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 25)
	offset := c.QueryInt("offset", 0)
	unreadOnly := c.Query("unread") == "true"

	calls, total, err := h.store.ListCalls(accountID(c), limit, offset, unreadOnly)
	if err != nil {
		log.Printf("❌ Call list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not list calls",
		})
	}

	out := models.CallListResult{
		Calls:      make([]models.Call, 0, len(calls)),
		TotalCount: int(total),
	}
	for _, rec := range calls {
		out.Calls = append(out.Calls, toCall(rec))
	}
	return c.JSON(out)
}

func (h *Handler) GetCall(c *fiber.Ctx) error {
	call, ok := h.findCall(c)
	if !ok {
		return nil
	}
	return c.JSON(toCallDetail(call))
}

func (h *Handler) MarkCallRead(c *fiber.Ctx) error {
	call, ok := h.findCall(c)
	if !ok {
		return nil
	}
	call.Unread = false
	if err := h.store.UpdateCall(call); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update call",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) PutCallNotes(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	call, ok := h.findCall(c)
	if !ok {
		return nil
	}
	call.Notes = req.Notes
	if err := h.store.UpdateCall(call); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save notes",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) GetRecording(c *fiber.Ctx) error {
	call, ok := h.findCall(c)
	if !ok {
		return nil
	}
	if !call.HasRecording {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No recording for this call",
		})
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(SynthesizeRecording(call.ID, call.DurationSeconds))
}

// SimulateCall creates one new inbound call, using the live agent simulator
// when one is configured and canned transcripts otherwise.
func (h *Handler) SimulateCall(c *fiber.Ctx) error {
	profile, err := h.store.ProfileByAccount(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	call := h.sim.NewCall(c.Context(), accountID(c), toProfile(profile))
	if err := h.store.CreateCall(call); err != nil {
		log.Printf("❌ Simulated call insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create call",
		})
	}

	if sub, err := h.store.SubscriptionByAccount(accountID(c)); err == nil {
		sub.CallsUsed++
		if err := h.store.SaveSubscription(sub); err != nil {
			log.Printf("⚠️ Could not bump call usage: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toCallDetail(call))
}

// findCall loads the call in the :id param, writing the error response
// itself when the id is bad or unknown.
func (h *Handler) findCall(c *fiber.Ctx) (*CallRecord, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid call id",
		})
		return nil, false
	}
	call, err := h.store.FindCall(accountID(c), id)
	if err != nil {
		status := fiber.StatusInternalServerError
		msg := "Could not load call"
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = fiber.StatusNotFound
			msg = "Call not found"
		}
		_ = c.Status(status).JSON(fiber.Map{"error": msg})
		return nil, false
	}
	return call, true
}

// Layout preferences

func (h *Handler) GetLayout(c *fiber.Ctx) error {
	layout, err := h.store.LayoutByAccount(accountID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(models.CallLayoutPreferences{
				SectionOrder:      models.DefaultSectionOrder(),
				CollapsedSections: map[models.SectionID]bool{},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load layout preferences",
		})
	}
	return c.JSON(toLayout(layout))
}

func (h *Handler) PutLayout(c *fiber.Ctx) error {
	var req models.CallLayoutPreferences
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	layout := &LayoutRecord{
		AccountID:         accountID(c),
		SectionOrder:      jsonColumn(req.SectionOrder, "[]"),
		CollapsedSections: jsonColumn(req.CollapsedSections, "{}"),
	}
	if err := h.store.SaveLayout(layout); err != nil {
		log.Printf("❌ Layout save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save layout preferences",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Billing

func (h *Handler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(PlanCatalog())
}

func (h *Handler) GetSubscription(c *fiber.Ctx) error {
	sub, err := h.store.SubscriptionByAccount(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription on file",
		})
	}
	return c.JSON(toSubscription(sub))
}

// Integrations

func (h *Handler) ListIntegrations(c *fiber.Ctx) error {
	items, err := h.store.ListIntegrations(accountID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not list integrations",
		})
	}
	out := make([]models.Integration, 0, len(items))
	for _, rec := range items {
		out = append(out, toIntegration(rec))
	}
	return c.JSON(out)
}

func (h *Handler) StartPairing(c *fiber.Ctx) error {
	slug := c.Params("id")
	item, err := h.store.FindIntegration(accountID(c), slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown integration",
		})
	}

	if item.Status != "connected" {
		item.Status = "pending"
		if err := h.store.SaveIntegration(item); err != nil {
			log.Printf("⚠️ Could not mark %s pending: %v", slug, err)
		}
	}

	return c.JSON(models.PairingSession{
		IntegrationID: item.Slug,
		QRPayload:     "frontdesk-pair:" + item.Slug + ":" + uuid.NewString(),
		ExpiresAt:     time.Now().Add(2 * time.Minute),
		Status:        "pending",
	})
}

// Analytics

// GetAnalyticsSummary aggregates the call table into the dashboard payload.
// Some fields are deliberately serialized the way the production aggregation
// pipeline emits them: avg_duration_seconds is a formatted string and totals
// are plain numbers.
func (h *Handler) GetAnalyticsSummary(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 {
		days = 1
	}

	now := time.Now()
	since := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)
	calls, err := h.store.CallsSince(accountID(c), since)
	if err != nil {
		log.Printf("❌ Analytics aggregation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not aggregate calls",
		})
	}

	return c.JSON(summarize(calls, since, days))
}
