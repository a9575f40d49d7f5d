package store

import (
	"context"
	"sync"

	"github.com/semanticsaas/talentctl/internal/model"
)

// UserGateway is the slice of the HTTP client the user store needs.
type UserGateway interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListUsersByCustomer(ctx context.Context, customerID int64) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserSnapshot is one immutable view of the user store.
type UserSnapshot struct {
	Items   []model.User
	Current *model.User
	Loading bool
	Err     string
}

// Users is the unpaginated user store. Its cache holds the whole visible
// collection, so a created record is appended directly from the server's
// response.
type Users struct {
	gw UserGateway

	mu   sync.Mutex
	snap UserSnapshot
	subs []func(UserSnapshot)
}

// NewUsers constructs an empty user store.
func NewUsers(gw UserGateway) *Users {
	return &Users{gw: gw}
}

// Subscribe registers fn to run after every state mutation.
func (s *Users) Subscribe(fn func(UserSnapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns the current store view.
func (s *Users) Snapshot() UserSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Users) mutate(apply func(*UserSnapshot)) {
	s.mu.Lock()
	apply(&s.snap)
	snap := s.snap
	subs := make([]func(UserSnapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Users) begin() {
	s.mutate(func(st *UserSnapshot) {
		st.Loading = true
		st.Err = ""
	})
}

func (s *Users) fail(err error) {
	s.mutate(func(st *UserSnapshot) {
		st.Loading = false
		st.Err = err.Error()
	})
}

// List fetches the whole visible collection, replacing the cache.
func (s *Users) List(ctx context.Context) error {
	s.begin()
	res, err := s.gw.ListUsers(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.mutate(func(st *UserSnapshot) {
		st.Items = res
		st.Loading = false
	})
	return nil
}

// ListByCustomer fetches one customer's users, replacing the cache.
func (s *Users) ListByCustomer(ctx context.Context, customerID int64) error {
	s.begin()
	res, err := s.gw.ListUsersByCustomer(ctx, customerID)
	if err != nil {
		s.fail(err)
		return err
	}
	s.mutate(func(st *UserSnapshot) {
		st.Items = res
		st.Loading = false
	})
	return nil
}

// Get populates Current; on failure Current is left absent and the error
// surfaces to the caller.
func (s *Users) Get(ctx context.Context, id int64) error {
	s.begin()
	res, err := s.gw.GetUser(ctx, id)
	if err != nil {
		s.mutate(func(st *UserSnapshot) {
			st.Current = nil
			st.Loading = false
			st.Err = err.Error()
		})
		return err
	}
	s.mutate(func(st *UserSnapshot) {
		st.Current = res
		st.Loading = false
	})
	return nil
}

// ClearCurrent drops the detail record on navigation away.
func (s *Users) ClearCurrent() {
	s.mutate(func(st *UserSnapshot) { st.Current = nil })
}

// Create submits a new account and appends the server's record to the
// cache; the submitted payload itself never lands in state.
func (s *Users) Create(ctx context.Context, u model.User) (*model.User, error) {
	s.begin()
	created, err := s.gw.CreateUser(ctx, u)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.mutate(func(st *UserSnapshot) {
		// copy-on-write: a plain append could grow into spare capacity shared
		// with snapshots already handed out
		items := make([]model.User, 0, len(st.Items)+1)
		items = append(items, st.Items...)
		st.Items = append(items, *created)
		st.Loading = false
	})
	return created, nil
}

// Update replaces the account server-side and re-adopts the server's record
// into Items and, when it matches, Current.
func (s *Users) Update(ctx context.Context, id int64, u model.User) (*model.User, error) {
	s.begin()
	updated, err := s.gw.UpdateUser(ctx, id, u)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.mutate(func(st *UserSnapshot) {
		// copy-on-write, same reasoning as Create
		items := make([]model.User, len(st.Items))
		copy(items, st.Items)
		for i := range items {
			if items[i].ID == id {
				items[i] = *updated
			}
		}
		st.Items = items
		if st.Current != nil && st.Current.ID == id {
			st.Current = updated
		}
		st.Loading = false
	})
	return updated, nil
}

// Delete removes the account server-side, then by identifier from the
// cache; Current is cleared only when it matches.
func (s *Users) Delete(ctx context.Context, id int64) error {
	s.begin()
	if err := s.gw.DeleteUser(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.mutate(func(st *UserSnapshot) {
		// filter into a fresh slice, never compact in place
		kept := make([]model.User, 0, len(st.Items))
		for _, it := range st.Items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		st.Items = kept
		if st.Current != nil && st.Current.ID == id {
			st.Current = nil
		}
		st.Loading = false
	})
	return nil
}
