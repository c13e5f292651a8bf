package mockapi

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store owns the sqlite database behind the mock server.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (or creates) the database file and migrates the schema.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.AutoMigrate(
		&Account{},
		&ProfileRecord{},
		&CallRecord{},
		&LayoutRecord{},
		&SubscriptionRecord{},
		&IntegrationRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Accounts

func (s *Store) CreateAccount(account *Account) error {
	return s.db.Create(account).Error
}

func (s *Store) UpdateAccount(account *Account) error {
	return s.db.Save(account).Error
}

func (s *Store) FindAccountByEmail(email string) (*Account, error) {
	var account Account
	err := s.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) FindAccountByID(id uuid.UUID) (*Account, error) {
	var account Account
	err := s.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Profiles

func (s *Store) ProfileByAccount(accountID uuid.UUID) (*ProfileRecord, error) {
	var profile ProfileRecord
	err := s.db.Where("account_id = ?", accountID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile upserts. The account id is the primary key and the row may not
// exist yet for a fresh account.
func (s *Store) SaveProfile(profile *ProfileRecord) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
}

// Calls

func (s *Store) CreateCall(call *CallRecord) error {
	return s.db.Create(call).Error
}

func (s *Store) UpdateCall(call *CallRecord) error {
	return s.db.Save(call).Error
}

func (s *Store) FindCall(accountID, id uuid.UUID) (*CallRecord, error) {
	var call CallRecord
	err := s.db.Where("account_id = ? AND id = ?", accountID, id).First(&call).Error
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// ListCalls returns one page of calls, newest first, plus the unpaged total.
func (s *Store) ListCalls(accountID uuid.UUID, limit, offset int, unreadOnly bool) ([]CallRecord, int64, error) {
	query := s.db.Model(&CallRecord{}).Where("account_id = ?", accountID)
	if unreadOnly {
		query = query.Where("unread = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var calls []CallRecord
	query = query.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&calls).Error
	return calls, total, err
}

func (s *Store) CallsSince(accountID uuid.UUID, since time.Time) ([]CallRecord, error) {
	var calls []CallRecord
	err := s.db.
		Where("account_id = ? AND started_at >= ?", accountID, since).
		Order("started_at ASC").
		Find(&calls).Error
	return calls, err
}

func (s *Store) CountCalls(accountID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.Model(&CallRecord{}).Where("account_id = ?", accountID).Count(&total).Error
	return total, err
}

// Layout preferences

func (s *Store) LayoutByAccount(accountID uuid.UUID) (*LayoutRecord, error) {
	var layout LayoutRecord
	err := s.db.Where("account_id = ?", accountID).First(&layout).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (s *Store) SaveLayout(layout *LayoutRecord) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(layout).Error
}

// Billing

func (s *Store) SubscriptionByAccount(accountID uuid.UUID) (*SubscriptionRecord, error) {
	var sub SubscriptionRecord
	err := s.db.Where("account_id = ?", accountID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) SaveSubscription(sub *SubscriptionRecord) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(sub).Error
}

// Integrations

func (s *Store) ListIntegrations(accountID uuid.UUID) ([]IntegrationRecord, error) {
	var items []IntegrationRecord
	err := s.db.
		Where("account_id = ?", accountID).
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) FindIntegration(accountID uuid.UUID, slug string) (*IntegrationRecord, error) {
	var item IntegrationRecord
	err := s.db.Where("account_id = ? AND slug = ?", accountID, slug).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveIntegration(item *IntegrationRecord) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(item).Error
}
