package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/session"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionPersistence stores one serialized identity per browser context
// under a single key, satisfying session.Persistence.
// Key format: session:<context_id>
type SessionPersistence struct {
	client    *redis.Client
	contextID string
	ttl       time.Duration
}

// NewSessionPersistence creates the persistence adapter for one browser
// context. A non-positive ttl falls back to defaultSessionTTL.
func NewSessionPersistence(client *redis.Client, contextID string, ttl time.Duration) *SessionPersistence {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionPersistence{client: client, contextID: contextID, ttl: ttl}
}

func (p *SessionPersistence) Load(ctx context.Context) (*domain.Identity, bool, error) {
	data, err := p.client.Get(ctx, p.key()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}

	id, err := session.DecodeIdentity(data)
	if err != nil {
		return nil, false, err
	}
	return id, true, nil
}

func (p *SessionPersistence) Save(ctx context.Context, id *domain.Identity) error {
	data, err := session.EncodeIdentity(id)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key(), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *SessionPersistence) Delete(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key()).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (p *SessionPersistence) key() string {
	return "session:" + p.contextID
}
