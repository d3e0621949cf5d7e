package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const shareGuardTTL = time.Hour

// ShareGuard rejects repeated share-profile submissions backed by Redis.
// Key format: share:<patient_email>:<practitioner_id>:<organization_id>
type ShareGuard struct {
	client *redis.Client
}

// NewShareGuard creates a ShareGuard wrapping the given Redis client.
func NewShareGuard(client *redis.Client) *ShareGuard {
	return &ShareGuard{client: client}
}

// IsDuplicate reports whether the same share was already submitted inside
// the guard window.
func (g *ShareGuard) IsDuplicate(ctx context.Context, patientEmail, practitionerID, organizationID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(patientEmail, practitionerID, organizationID)).Result()
	if err != nil {
		return false, fmt.Errorf("share guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records the submission (expires after shareGuardTTL).
func (g *ShareGuard) Mark(ctx context.Context, patientEmail, practitionerID, organizationID string) error {
	return g.client.Set(ctx, g.key(patientEmail, practitionerID, organizationID), "1", shareGuardTTL).Err()
}

func (g *ShareGuard) key(patientEmail, practitionerID, organizationID string) string {
	return fmt.Sprintf("share:%s:%s:%s", patientEmail, practitionerID, organizationID)
}
