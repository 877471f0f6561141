package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
	redislib "github.com/redis/go-redis/v9"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Store is the key/value surface sessions persist through.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Keyer maps a token jti onto its storage key.
type Keyer interface {
	AccessSessionKey(accessID string) string
}

// Backend is satisfied by pkg/redis.Client.
type Backend interface {
	Store
	Keyer
}

// Record is what a live session stores under its jti.
type Record struct {
	UserID       int64  `json:"uid"`
	Username     string `json:"sub"`
	RefreshToken string `json:"refresh_token"`
}

// Issued is a freshly created or rotated session.
type Issued struct {
	AccessID     string
	RefreshToken string
	Record       Record
}

// Manager handles refresh token creation, storage, and rotation.
type Manager struct {
	store Store
	keyer Keyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager over the backend, typically Redis.
func NewManager(backend Backend, cfg config.JWTConfig) (*Manager, error) {
	if backend == nil {
		return nil, fmt.Errorf("session backend is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: backend,
		keyer: backend,
		ttl:   ttl,
	}, nil
}

// Generate creates a session for the user under a new access ID.
func (m *Manager) Generate(ctx context.Context, userID int64, username string) (Issued, error) {
	if userID <= 0 || strings.TrimSpace(username) == "" {
		return Issued{}, fmt.Errorf("user id and username are required")
	}
	return m.issue(ctx, Record{UserID: userID, Username: username})
}

// Rotate validates the refresh token of oldAccessID, invalidates that session, and
// issues a new one for the same user.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (Issued, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return Issued{}, ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	record, err := m.load(ctx, key)
	if err != nil {
		return Issued{}, err
	}

	if subtle.ConstantTimeCompare([]byte(record.RefreshToken), []byte(provided)) != 1 {
		return Issued{}, ErrInvalidRefreshToken
	}

	issued, err := m.issue(ctx, Record{UserID: record.UserID, Username: record.Username})
	if err != nil {
		return Issued{}, err
	}

	if err := m.store.Del(ctx, key); err != nil {
		return Issued{}, err
	}
	return issued, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *Manager) issue(ctx context.Context, record Record) (Issued, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return Issued{}, err
	}
	record.RefreshToken = token

	payload, err := json.Marshal(record)
	if err != nil {
		return Issued{}, fmt.Errorf("encoding session: %w", err)
	}

	accessID := NewAccessID()
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return Issued{}, err
	}
	return Issued{AccessID: accessID, RefreshToken: token, Record: record}, nil
}

func (m *Manager) load(ctx context.Context, key string) (Record, error) {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		return Record{}, wrapNotFound(err)
	}
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return Record{}, ErrInvalidRefreshToken
	}
	return record, nil
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) || errors.Is(err, ErrInvalidRefreshToken) {
		return ErrInvalidRefreshToken
	}
	return err
}
