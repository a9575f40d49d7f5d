// Package session owns the client's identity: one explicitly constructed
// store holding the persisted token and the identity derived from it.
// Readers take immutable snapshots and re-derive on change notification;
// nothing else in the program holds identity state.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/semanticsaas/talentctl/internal/api"
	"github.com/semanticsaas/talentctl/internal/model"
	"github.com/semanticsaas/talentctl/internal/token"
)

// State is the session lifecycle position.
type State int

const (
	// Unknown is the initial state, before Initialize has run.
	Unknown State = iota
	// Validating means the startup token check is in flight.
	Validating
	// Authenticating means a login call is in flight.
	Authenticating
	// Authenticated means an identity is set.
	Authenticated
	// Anonymous means no identity is present and nothing is in flight.
	Anonymous
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	State    State
	Identity *model.Identity
	Token    string
}

// IsLoading reports whether a redirect decision would be premature.
func (s Snapshot) IsLoading() bool {
	return s.State == Unknown || s.State == Validating || s.State == Authenticating
}

// IsAuthenticated reports whether an identity is established.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == Authenticated && s.Identity != nil
}

// Gateway is the slice of the HTTP client the session store needs.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	CurrentIdentity(ctx context.Context) (*model.Identity, error)
}

// Store is the session state machine:
// Unknown → Validating|Authenticating → Authenticated|Anonymous.
// State mutation is mutex-guarded so snapshots are never torn; whole
// operations are not serialized, and two concurrent logins resolve
// last-write-wins.
type Store struct {
	gw     Gateway
	tokens token.Store
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	identity *model.Identity
	tok      string
	subs     []func(Snapshot)

	initOnce sync.Once
}

// New constructs a Store in the Unknown state. logger may be nil.
func New(gw Gateway, tokens token.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{gw: gw, tokens: tokens, logger: logger.Named("session"), state: Unknown}
}

// Subscribe registers fn to run after every state transition, with the
// snapshot that transition produced.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns the current session view.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, Identity: s.identity, Token: s.tok}
}

// transition applies one state change and notifies subscribers outside the
// lock.
func (s *Store) transition(state State, identity *model.Identity, tok string) Snapshot {
	s.mu.Lock()
	s.state = state
	s.identity = identity
	s.tok = tok
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// Initialize validates a persisted token against the server, once. A missing
// token settles to Anonymous immediately; a failed validation (any cause) is
// terminal for this attempt: the token is erased and the session settles to
// Anonymous without retrying.
func (s *Store) Initialize(ctx context.Context) Snapshot {
	s.initOnce.Do(func() {
		tok, err := s.tokens.Load()
		if err != nil {
			s.transition(Anonymous, nil, "")
			return
		}

		s.transition(Validating, nil, tok)
		identity, err := s.gw.CurrentIdentity(ctx)
		if err != nil {
			s.logger.Warn("startup token validation failed", zap.Error(err))
			_ = s.tokens.Clear()
			s.transition(Anonymous, nil, "")
			return
		}
		s.transition(Authenticated, identity, tok)
	})
	return s.Snapshot()
}

// Login exchanges credentials for a session. On success the token is
// persisted and token+identity are applied in one transition, so no caller
// ever observes one without the other. On failure the prior state is
// restored untouched and the error is returned, not swallowed.
func (s *Store) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	s.mu.Lock()
	prev := s.snapshotLocked()
	s.mu.Unlock()

	s.transition(Authenticating, prev.Identity, prev.Token)

	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.transition(prev.State, prev.Identity, prev.Token)
		return nil, err
	}

	if err := s.tokens.Save(res.Token); err != nil {
		s.logger.Error("persist token", zap.Error(err))
		s.transition(prev.State, prev.Identity, prev.Token)
		return nil, err
	}
	identity := res.Identity
	snap := s.transition(Authenticated, &identity, res.Token)
	s.logger.Info("login", zap.String("username", identity.Username), zap.String("state", snap.State.String()))
	return &identity, nil
}

// Logout is synchronous and local-only: erase the persisted token, drop the
// identity. The server is not called.
func (s *Store) Logout() {
	_ = s.tokens.Clear()
	s.transition(Anonymous, nil, "")
}

// Invalidate tears the session down after an authentication rejection from
// the gateway. The gateway has already erased the token; this resets the
// in-memory side. Safe to call redundantly from concurrent 401s.
func (s *Store) Invalidate() {
	s.transition(Anonymous, nil, "")
}
