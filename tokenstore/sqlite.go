package tokenstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jrsteele09/go-oauth-client/token"
)

var _ Store = (*SQLite)(nil)

// tokenRecord is the persisted row: the token serialized as JSON, keyed by
// provider identity.
type tokenRecord struct {
	ProviderKey string `gorm:"primaryKey;column:provider_key"`
	Payload     []byte `gorm:"column:payload"`
	UpdatedAt   time.Time
}

func (tokenRecord) TableName() string { return "oauth_tokens" }

// SQLite persists tokens in a SQLite database via GORM. Suitable for CLI
// tools that want tokens to survive restarts without running a server.
type SQLite struct {
	db *gorm.DB
}

// NewSQLite opens (creating if needed) the database at path and migrates the
// token table. Use ":memory:" for an ephemeral database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[NewSQLite] open")
	}
	return NewGorm(db)
}

// NewGorm wraps an existing GORM handle and migrates the token table.
func NewGorm(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&tokenRecord{}); err != nil {
		return nil, errors.Wrap(err, "[NewGorm] migrate")
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLite) Token(ctx context.Context, key string) (*token.Token, error) {
	var record tokenRecord
	result := s.db.WithContext(ctx).First(&record, "provider_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "[SQLite.Token] select")
	}

	var tok token.Token
	if err := json.Unmarshal(record.Payload, &tok); err != nil {
		return nil, errors.Wrap(err, "[SQLite.Token] unmarshal")
	}
	return &tok, nil
}

func (s *SQLite) SetToken(ctx context.Context, key string, tok *token.Token) error {
	if tok == nil {
		result := s.db.WithContext(ctx).Delete(&tokenRecord{}, "provider_key = ?", key)
		return errors.Wrap(result.Error, "[SQLite.SetToken] delete")
	}

	payload, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "[SQLite.SetToken] marshal")
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&tokenRecord{ProviderKey: key, Payload: payload, UpdatedAt: time.Now()})
	return errors.Wrap(result.Error, "[SQLite.SetToken] upsert")
}
