package store

import (
	"context"
	"errors"
	"testing"

	"github.com/semanticsaas/talentctl/internal/errs"
	"github.com/semanticsaas/talentctl/internal/model"
)

type fakeTalentGateway struct {
	pages   map[int]*model.Page[model.Talent]
	listErr error

	searchPage *model.Page[model.Talent]
	searchErr  error

	record *model.Talent
	getErr error

	created   *model.Talent
	createErr error

	updated   *model.Talent
	updateErr error

	deleteErr error

	count    int64
	countErr error

	deleted []int64
}

var _ TalentGateway = (*fakeTalentGateway)(nil)

func (f *fakeTalentGateway) ListTalents(_ context.Context, page, _ int, _, _ string) (*model.Page[model.Talent], error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pages[page], nil
}

func (f *fakeTalentGateway) SearchTalents(context.Context, string, int, int) (*model.Page[model.Talent], error) {
	return f.searchPage, f.searchErr
}

func (f *fakeTalentGateway) CountTalents(context.Context) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeTalentGateway) GetTalent(context.Context, int64) (*model.Talent, error) {
	return f.record, f.getErr
}

func (f *fakeTalentGateway) CreateTalent(context.Context, model.Talent) (*model.Talent, error) {
	return f.created, f.createErr
}

func (f *fakeTalentGateway) UpdateTalent(context.Context, int64, model.Talent) (*model.Talent, error) {
	return f.updated, f.updateErr
}

func (f *fakeTalentGateway) DeleteTalent(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func talentPage(page int, ids ...int64) *model.Page[model.Talent] {
	content := make([]model.Talent, 0, len(ids))
	for _, id := range ids {
		content = append(content, model.Talent{ID: id, FirstName: "T", LastName: "L", Email: "t@l.io"})
	}
	return &model.Page[model.Talent]{
		Content: content, Page: page, Size: len(ids),
		TotalElements: int64(len(ids)), TotalPages: page + 1,
		First: page == 0, Last: true,
	}
}

func TestTalents_ListReplacesPageWholesale(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{pages: map[int]*model.Page[model.Talent]{
		0: talentPage(0, 1, 2, 3),
		1: talentPage(1, 4, 5),
	}}
	s := NewTalents(gw)

	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	if err := s.List(context.Background(), 1, 10, "", ""); err != nil {
		t.Fatalf("List page 1: %v", err)
	}

	snap := s.Snapshot()
	if snap.Page != 1 {
		t.Fatalf("page = %d, want 1", snap.Page)
	}
	if len(snap.Items) != 2 || snap.Items[0].ID != 4 || snap.Items[1].ID != 5 {
		t.Fatalf("items = %+v, want only the second page", snap.Items)
	}
}

func TestTalents_ListRejectsBadPagingWithoutNetwork(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{listErr: errors.New("must not be reached")}
	s := NewTalents(gw)

	if err := s.List(context.Background(), -1, 10, "", ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for page=-1, got %v", err)
	}
	if err := s.List(context.Background(), 0, 0, "", ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for size=0, got %v", err)
	}
	snap := s.Snapshot()
	if snap.Loading || snap.Err == "" {
		t.Fatalf("snapshot = %+v, want settled with error", snap)
	}
}

func TestTalents_ListFailureLeavesItemsUntouched(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{pages: map[int]*model.Page[model.Talent]{0: talentPage(0, 1, 2)}}
	s := NewTalents(gw)
	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}

	gw.listErr = errs.ErrServer
	if err := s.List(context.Background(), 0, 10, "", ""); !errors.Is(err, errs.ErrServer) {
		t.Fatalf("want ErrServer, got %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("items disturbed by failed fetch: %+v", snap.Items)
	}
	if snap.Loading || snap.Err == "" {
		t.Fatalf("loading/error not settled: %+v", snap)
	}
}

func TestTalents_CreateAdoptsServerResponse(t *testing.T) {
	t.Parallel()

	// The server canonicalizes fields; its record, not the payload, is what
	// the caller gets back.
	gw := &fakeTalentGateway{created: &model.Talent{ID: 7, FirstName: "A", LastName: "B", Email: "a@b.com", Location: "Berlin"}}
	s := NewTalents(gw)

	created, err := s.Create(context.Background(), model.Talent{FirstName: "a", LastName: "b", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 7 || created.FirstName != "A" || created.Location != "Berlin" {
		t.Fatalf("created = %+v, want the server's representation", created)
	}
	// Paginated store: the new record is not spliced into Items.
	if snap := s.Snapshot(); len(snap.Items) != 0 {
		t.Fatalf("items = %+v, want empty until next List", snap.Items)
	}
}

func TestTalents_UpdateReplacesByIDIncludingCurrent(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{
		pages:   map[int]*model.Page[model.Talent]{0: talentPage(0, 1, 2, 3)},
		record:  &model.Talent{ID: 2, FirstName: "Old"},
		updated: &model.Talent{ID: 2, FirstName: "New", LastName: "L", Email: "t@l.io"},
	}
	s := NewTalents(gw)
	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := s.Get(context.Background(), 2); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if _, err := s.Update(context.Background(), 2, model.Talent{FirstName: "submitted"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap := s.Snapshot()
	if snap.Items[1].FirstName != "New" {
		t.Fatalf("items[1] = %+v, want server record", snap.Items[1])
	}
	if snap.Current == nil || snap.Current.FirstName != "New" {
		t.Fatalf("current = %+v, want server record", snap.Current)
	}
}

func TestTalents_DeleteRemovesByID(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{
		pages:  map[int]*model.Page[model.Talent]{0: talentPage(0, 1, 2, 3)},
		record: &model.Talent{ID: 3},
	}
	s := NewTalents(gw)
	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := s.Get(context.Background(), 3); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Current does not match the deleted id: it survives.
	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].ID != 1 || snap.Items[1].ID != 3 {
		t.Fatalf("items = %+v, want [1 3]", snap.Items)
	}
	if snap.Current == nil || snap.Current.ID != 3 {
		t.Fatalf("current cleared although id did not match: %+v", snap.Current)
	}

	// Current matches: it is cleared.
	if err := s.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	snap = s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != 1 {
		t.Fatalf("items = %+v, want [1]", snap.Items)
	}
	if snap.Current != nil {
		t.Fatalf("current = %+v, want cleared", snap.Current)
	}
}

func TestTalents_SnapshotSurvivesLaterMutations(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{
		pages:   map[int]*model.Page[model.Talent]{0: talentPage(0, 1, 2, 3)},
		updated: &model.Talent{ID: 2, FirstName: "New", LastName: "L", Email: "t@l.io"},
	}
	s := NewTalents(gw)
	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}

	// A snapshot handed out before a write must keep reading the old data;
	// it aliases the backing array, so the store may never edit it in place.
	before := s.Snapshot()

	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(before.Items) != 3 || before.Items[0].ID != 1 || before.Items[1].ID != 2 || before.Items[2].ID != 3 {
		t.Fatalf("pre-delete snapshot disturbed: %+v", before.Items)
	}

	before = s.Snapshot()
	if _, err := s.Update(context.Background(), 2, model.Talent{FirstName: "submitted"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if before.Items[0].FirstName != "T" {
		t.Fatalf("pre-update snapshot disturbed: %+v", before.Items)
	}
}

func TestTalents_GetFailureLeavesCurrentAbsent(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{record: &model.Talent{ID: 5}}
	s := NewTalents(gw)
	if err := s.Get(context.Background(), 5); err != nil {
		t.Fatalf("Get: %v", err)
	}

	gw.getErr = errs.ErrNotFound
	if err := s.Get(context.Background(), 6); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if snap := s.Snapshot(); snap.Current != nil {
		t.Fatalf("current = %+v, want absent after failed detail fetch", snap.Current)
	}
}

func TestTalents_LoadingFlagSymmetry(t *testing.T) {
	t.Parallel()

	gw := &fakeTalentGateway{pages: map[int]*model.Page[model.Talent]{0: talentPage(0, 1)}}
	s := NewTalents(gw)

	var sawLoading bool
	s.Subscribe(func(snap TalentSnapshot) {
		if snap.Loading {
			sawLoading = true
		}
	})

	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}
	snap := s.Snapshot()
	if snap.Loading || snap.Err != "" {
		t.Fatalf("success must end loading=false, err absent: %+v", snap)
	}
	if !sawLoading {
		t.Fatalf("operation never reported loading=true")
	}

	gw.listErr = errs.ErrServer
	_ = s.List(context.Background(), 0, 10, "", "")
	snap = s.Snapshot()
	if snap.Loading || snap.Err == "" {
		t.Fatalf("failure must end loading=false with non-empty error: %+v", snap)
	}

	// A retry clears the stale error at start.
	gw.listErr = nil
	var clearedAtStart bool
	s.Subscribe(func(snap TalentSnapshot) {
		if snap.Loading && snap.Err == "" {
			clearedAtStart = true
		}
	})
	if err := s.List(context.Background(), 0, 10, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !clearedAtStart {
		t.Fatalf("stale error not cleared at operation start")
	}
}
