package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// SchemaVersion is stamped into every persisted envelope so a future format
// change can be detected instead of silently misread.
const SchemaVersion = 1

// Persistence stores at most one identity per browser context.
type Persistence interface {
	// Load returns the persisted identity, or found=false when none exists.
	// A decode failure is an error; callers treat it as "no identity".
	Load(ctx context.Context) (id *domain.Identity, found bool, err error)
	Save(ctx context.Context, id *domain.Identity) error
	Delete(ctx context.Context) error
}

// Envelope is the on-disk shape of a persisted session.
type Envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Identity      domain.Identity `json:"identity"`
}

// EncodeIdentity serialises an identity into a versioned envelope.
func EncodeIdentity(id *domain.Identity) ([]byte, error) {
	return json.Marshal(Envelope{SchemaVersion: SchemaVersion, Identity: *id})
}

// DecodeIdentity parses a persisted envelope, rejecting unknown schema
// versions and blobs without the identity core fields.
func DecodeIdentity(data []byte) (*domain.Identity, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("decode session: unsupported schema version %d", env.SchemaVersion)
	}
	if env.Identity.Email == "" || env.Identity.Role == "" {
		return nil, fmt.Errorf("decode session: missing identity fields")
	}
	return &env.Identity, nil
}

// MemoryPersistence is an in-process Persistence, used by tests and as the
// fallback when no Redis is configured.
type MemoryPersistence struct {
	data []byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Load(_ context.Context) (*domain.Identity, bool, error) {
	if m.data == nil {
		return nil, false, nil
	}
	id, err := DecodeIdentity(m.data)
	if err != nil {
		return nil, false, err
	}
	return id, true, nil
}

func (m *MemoryPersistence) Save(_ context.Context, id *domain.Identity) error {
	data, err := EncodeIdentity(id)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *MemoryPersistence) Delete(_ context.Context) error {
	m.data = nil
	return nil
}

// Corrupt overwrites the stored blob with arbitrary bytes. Test hook for the
// tolerant hydration path.
func (m *MemoryPersistence) Corrupt(raw []byte) {
	m.data = raw
}
