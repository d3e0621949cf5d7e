// Package session owns the authenticated identity for one browser context:
// it hydrates the persisted identity once at startup, keeps the in-memory and
// persisted copies in step on every mutation, and hands out immutable
// snapshots for route gating.
package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/api/metrics"
	"github.com/carelink/health-exchange/internal/core/domain"
)

// State is the lifecycle state of a session store.
type State int

const (
	// StateUninitialized means Initialize has not completed yet. Consumers
	// must not make identity-dependent decisions in this state.
	StateUninitialized State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Snapshot is an immutable view of the store handed to consumers such as the
// route gate. Identity is nil unless State is StateAuthenticated.
type Snapshot struct {
	State    State
	Identity *domain.Identity
}

// Store is the single source of truth for "who is logged in" within one
// browser context. It is not safe for concurrent use; callers are expected to
// serialise mutations, mirroring a UI update queue.
type Store struct {
	persistence Persistence
	log         zerolog.Logger

	state    State
	identity domain.Identity
}

// NewStore returns a Store in the uninitialized state. Call Initialize before
// reading from it.
func NewStore(p Persistence, log zerolog.Logger) *Store {
	return &Store{persistence: p, log: log, state: StateUninitialized}
}

// Initialize hydrates the persisted identity. Missing or malformed data is
// not a fault: the store simply comes up anonymous. After the first call the
// store is ready and further calls are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	if s.state != StateUninitialized {
		return
	}

	id, found, err := s.persistence.Load(ctx)
	if err != nil {
		metrics.SessionHydrationFailures.Inc()
		s.log.Warn().Err(err).Msg("session hydration failed, starting anonymous")
		s.state = StateAnonymous
		return
	}
	if !found {
		s.state = StateAnonymous
		return
	}

	s.identity = *id
	s.state = StateAuthenticated
}

// Ready reports whether Initialize has completed.
func (s *Store) Ready() bool {
	return s.state != StateUninitialized
}

// Snapshot returns the current state and, when authenticated, a copy of the
// identity.
func (s *Store) Snapshot() Snapshot {
	if s.state != StateAuthenticated {
		return Snapshot{State: s.state}
	}
	id := s.identity
	return Snapshot{State: StateAuthenticated, Identity: &id}
}

// Login establishes the given identity, replacing any prior one, and writes
// it through to persistence before returning.
func (s *Store) Login(ctx context.Context, id domain.Identity) {
	s.identity = id
	s.state = StateAuthenticated
	s.persist(ctx)
}

// Register has the same contract as Login; the distinction is caller intent.
func (s *Store) Register(ctx context.Context, id domain.Identity) {
	s.Login(ctx, id)
}

// Logout clears the in-memory identity and removes the persisted copy.
// Calling it while already logged out is a no-op, and before Initialize it
// does nothing at all: only Initialize moves the store out of uninitialized.
func (s *Store) Logout(ctx context.Context) {
	if s.state != StateAuthenticated {
		return
	}
	s.identity = domain.Identity{}
	s.state = StateAnonymous
	if err := s.persistence.Delete(ctx); err != nil {
		metrics.SessionPersistFailures.Inc()
		s.log.Error().Err(err).Msg("failed to remove persisted session")
	}
}

// UpdateProfile shallow-merges the update into the current identity and
// writes through. Email and role are immutable and cannot be changed this
// way. Returns domain.ErrNoActiveSession when no identity is established.
func (s *Store) UpdateProfile(ctx context.Context, u domain.ProfileUpdate) error {
	if s.state != StateAuthenticated {
		return domain.ErrNoActiveSession
	}
	s.identity = s.identity.Merge(u)
	s.persist(ctx)
	return nil
}

// persist writes the current identity through. A failing write is logged and
// counted but never surfaced: the in-memory identity stays authoritative for
// the rest of the page lifetime.
func (s *Store) persist(ctx context.Context) {
	if err := s.persistence.Save(ctx, &s.identity); err != nil {
		metrics.SessionPersistFailures.Inc()
		s.log.Error().Err(err).Str("email", s.identity.Email).Msg("failed to persist session")
	}
}
