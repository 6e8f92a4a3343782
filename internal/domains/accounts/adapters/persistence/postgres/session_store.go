package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// SessionStore persists wallet sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;type:text"`
	ID        string     `gorm:"column:session_id;size:36"`
	Wallet    string     `gorm:"column:wallet;size:42;index"`
	IssuedAt  time.Time  `gorm:"column:issued_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "wallet_sessions" }

// Save upserts a session keyed by token.
func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token := strings.TrimSpace(session.Token)
	if token == "" || session.Wallet.IsZero() {
		return errors.New("wallet and token are required")
	}
	expiry := session.ExpiresAt
	rec := sessionRecord{
		Token:     token,
		ID:        session.ID,
		Wallet:    session.Wallet.String(),
		IssuedAt:  session.IssuedAt,
		ExpiresAt: &expiry,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"wallet", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).First(&rec, "token = ?", strings.TrimSpace(token)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		ID:       rec.ID,
		Wallet:   mdomain.Address(rec.Wallet),
		Token:    rec.Token,
		IssuedAt: rec.IssuedAt.UTC(),
	}
	if rec.ExpiresAt != nil {
		session.ExpiresAt = rec.ExpiresAt.UTC()
	}
	return session, nil
}

// DeleteWallet removes every session of the wallet.
func (s *SessionStore) DeleteWallet(ctx context.Context, wallet mdomain.Address) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if wallet.IsZero() {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "wallet = ?", wallet.String()).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&sessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
