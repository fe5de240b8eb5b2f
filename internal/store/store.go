// Package store persists anonymization sessions in PostgreSQL so entity
// maps can be retrieved for later deanonymization without the caller
// holding on to them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

// ErrNotFound is returned when a session ID does not exist or has expired.
var ErrNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS anonymization_sessions (
	id UUID PRIMARY KEY,
	language TEXT NOT NULL,
	entity_count INT NOT NULL,
	entity_map JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
)`

const expiresIndex = `
CREATE INDEX IF NOT EXISTS idx_anonymization_sessions_expires
ON anonymization_sessions (expires_at)`

// Store handles session persistence with PostgreSQL
type Store struct {
	db        *sqlx.DB
	retention time.Duration
	logger    *zap.Logger
}

// NewStore creates a new session store instance
func NewStore(config *Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	retention := config.Retention
	if retention <= 0 {
		retention = DefaultConfig().Retention
	}

	store := &Store{
		db:        db,
		retention: retention,
		logger:    logger,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	logger.Info("Session store initialized",
		zap.String("dsn", maskDSN(config.DSN)),
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Duration("retention", retention))

	return store, nil
}

// initialize checks the database connection and ensures the schema
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure sessions table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, expiresIndex); err != nil {
		return fmt.Errorf("failed to ensure expiry index: %w", err)
	}

	return nil
}

// Save persists an entity map and returns the session ID callers use to
// deanonymize later.
func (s *Store) Save(ctx context.Context, lang pii.Language, entities pii.EntityMap) (uuid.UUID, error) {
	id := uuid.New()

	payload, err := json.Marshal(entities)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode entity map: %w", err)
	}

	query := `
		INSERT INTO anonymization_sessions (id, language, entity_count, entity_map, expires_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = s.db.ExecContext(ctx, query,
		id,
		string(lang),
		len(entities),
		payload,
		time.Now().Add(s.retention),
	)
	if err != nil {
		s.logger.Error("Failed to save session",
			zap.Error(err),
			zap.String("session_id", id.String()))
		return uuid.Nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug("Session saved",
		zap.String("session_id", id.String()),
		zap.Int("entity_count", len(entities)))

	return id, nil
}

// Load retrieves a session by ID. Expired sessions are treated as missing.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `
		SELECT id, language, entity_count, entity_map, created_at, expires_at
		FROM anonymization_sessions
		WHERE id = $1 AND expires_at > NOW()`

	var (
		session Session
		lang    string
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&lang,
		&session.EntityCount,
		&payload,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to load session",
			zap.Error(err),
			zap.String("session_id", id.String()))
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session.Language = pii.Language(lang)
	if err := json.Unmarshal(payload, &session.EntityMap); err != nil {
		return nil, fmt.Errorf("failed to decode entity map: %w", err)
	}

	return &session, nil
}

// Delete removes a session. Callers delete sessions once the protected
// document is restored.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM anonymization_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		s.logger.Warn("Could not get rows affected", zap.Error(err))
		return nil
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("Session deleted", zap.String("session_id", id.String()))
	return nil
}

// Purge removes expired sessions and returns how many were deleted.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM anonymization_sessions WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	purged, err := res.RowsAffected()
	if err != nil {
		s.logger.Warn("Could not get rows affected", zap.Error(err))
		return 0, nil
	}

	if purged > 0 {
		s.logger.Info("Purged expired sessions", zap.Int64("count", purged))
	}
	return purged, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Count returns the number of live sessions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM anonymization_sessions WHERE expires_at > NOW()"
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// maskDSN masks the password portion of a connection string for logging
func maskDSN(dsn string) string {
	if strings.Contains(dsn, "@") {
		parts := strings.Split(dsn, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return dsn
}
