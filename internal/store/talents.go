// Package store holds the client-side copies of the server's collections:
// one store per resource type, each tracking the latest fetched page or
// cache, the current detail record, and per-operation loading/error state.
// Stores never fabricate a record locally; the server's returned
// representation is the only thing that lands in state after a write.
package store

import (
	"context"
	"sync"

	"github.com/semanticsaas/talentctl/internal/model"
)

// TalentGateway is the slice of the HTTP client the talent store needs.
type TalentGateway interface {
	ListTalents(ctx context.Context, page, size int, sortBy, sortDir string) (*model.Page[model.Talent], error)
	SearchTalents(ctx context.Context, keyword string, page, size int) (*model.Page[model.Talent], error)
	CountTalents(ctx context.Context) (int64, error)
	GetTalent(ctx context.Context, id int64) (*model.Talent, error)
	CreateTalent(ctx context.Context, t model.Talent) (*model.Talent, error)
	UpdateTalent(ctx context.Context, id int64, t model.Talent) (*model.Talent, error)
	DeleteTalent(ctx context.Context, id int64) error
}

// TalentSnapshot is one immutable view of the talent store.
type TalentSnapshot struct {
	Items         []model.Talent
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
	Current       *model.Talent
	Loading       bool
	Err           string
}

// Talents is the paginated talent store. The cached page is replaced
// wholesale by every successful List or Search; a created record is left for
// the next List to pick up.
type Talents struct {
	gw TalentGateway

	mu   sync.Mutex
	snap TalentSnapshot
	subs []func(TalentSnapshot)
}

// NewTalents constructs an empty talent store.
func NewTalents(gw TalentGateway) *Talents {
	return &Talents{gw: gw}
}

// Subscribe registers fn to run after every state mutation.
func (s *Talents) Subscribe(fn func(TalentSnapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns the current store view.
func (s *Talents) Snapshot() TalentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Talents) mutate(apply func(*TalentSnapshot)) {
	s.mu.Lock()
	apply(&s.snap)
	snap := s.snap
	subs := make([]func(TalentSnapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// begin marks an operation in flight and clears any stale error.
func (s *Talents) begin() {
	s.mutate(func(st *TalentSnapshot) {
		st.Loading = true
		st.Err = ""
	})
}

// fail records a user-presentable message and restores Loading. Items are
// left untouched.
func (s *Talents) fail(err error) {
	s.mutate(func(st *TalentSnapshot) {
		st.Loading = false
		st.Err = err.Error()
	})
}

func (s *Talents) adoptPage(page *model.Page[model.Talent]) {
	s.mutate(func(st *TalentSnapshot) {
		st.Items = page.Content
		st.Page = page.Page
		st.Size = page.Size
		st.TotalElements = page.TotalElements
		st.TotalPages = page.TotalPages
		st.First = page.First
		st.Last = page.Last
		st.Loading = false
	})
}

// List fetches one page and replaces the cached page wholesale.
func (s *Talents) List(ctx context.Context, page, size int, sortBy, sortDir string) error {
	s.begin()
	if err := checkPaging(page, size); err != nil {
		s.fail(err)
		return err
	}
	res, err := s.gw.ListTalents(ctx, page, size, sortBy, sortDir)
	if err != nil {
		s.fail(err)
		return err
	}
	s.adoptPage(res)
	return nil
}

// Search fetches one page of keyword matches, replacing the cached page.
func (s *Talents) Search(ctx context.Context, keyword string, page, size int) error {
	s.begin()
	if err := checkPaging(page, size); err != nil {
		s.fail(err)
		return err
	}
	res, err := s.gw.SearchTalents(ctx, keyword, page, size)
	if err != nil {
		s.fail(err)
		return err
	}
	s.adoptPage(res)
	return nil
}

// Count returns the total number of talent records server-side. It does not
// touch the cached page.
func (s *Talents) Count(ctx context.Context) (int64, error) {
	s.begin()
	n, err := s.gw.CountTalents(ctx)
	if err != nil {
		s.fail(err)
		return 0, err
	}
	s.mutate(func(st *TalentSnapshot) { st.Loading = false })
	return n, nil
}

// Get populates Current. On failure Current is left absent and the error
// surfaces; the caller is expected to navigate away.
func (s *Talents) Get(ctx context.Context, id int64) error {
	s.begin()
	res, err := s.gw.GetTalent(ctx, id)
	if err != nil {
		s.mutate(func(st *TalentSnapshot) {
			st.Current = nil
			st.Loading = false
			st.Err = err.Error()
		})
		return err
	}
	s.mutate(func(st *TalentSnapshot) {
		st.Current = res
		st.Loading = false
	})
	return nil
}

// ClearCurrent drops the detail record on navigation away.
func (s *Talents) ClearCurrent() {
	s.mutate(func(st *TalentSnapshot) { st.Current = nil })
}

// Create submits a new record. The store is paginated, so the server's
// record is returned to the caller but not spliced into Items; the next
// List picks it up.
func (s *Talents) Create(ctx context.Context, t model.Talent) (*model.Talent, error) {
	s.begin()
	created, err := s.gw.CreateTalent(ctx, t)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.mutate(func(st *TalentSnapshot) { st.Loading = false })
	return created, nil
}

// Update replaces the record server-side and re-adopts the server's
// representation into Items and, when it matches, Current.
func (s *Talents) Update(ctx context.Context, id int64, t model.Talent) (*model.Talent, error) {
	s.begin()
	updated, err := s.gw.UpdateTalent(ctx, id, t)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.mutate(func(st *TalentSnapshot) {
		// copy-on-write: snapshots already handed out keep aliasing the old
		// backing array, so it must never change underneath them
		items := make([]model.Talent, len(st.Items))
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

// Delete removes the record server-side, then by identifier from Items;
// Current is cleared only when it matches.
func (s *Talents) Delete(ctx context.Context, id int64) error {
	s.begin()
	if err := s.gw.DeleteTalent(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.mutate(func(st *TalentSnapshot) {
		// filter into a fresh slice, never compact in place
		kept := make([]model.Talent, 0, len(st.Items))
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
