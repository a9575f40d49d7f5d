package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/semanticsaas/talentctl/internal/errs"
	"github.com/semanticsaas/talentctl/internal/model"
	"github.com/semanticsaas/talentctl/internal/token"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *token.MemStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &token.MemStore{}
	c, err := Open(srv.URL, tokens, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c, tokens
}

func TestClient_AttachesBearerWhenTokenPresent(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReqID string
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(model.Identity{ID: 1, Username: "alice"})
	}))

	_ = tokens.Save("tok-123")
	if _, err := c.CurrentIdentity(context.Background()); err != nil {
		t.Fatalf("CurrentIdentity: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("missing X-Request-ID header")
	}
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	t.Parallel()

	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(LoginResult{Token: "t"})
	}))

	if _, err := c.Login(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unauthenticated request must not carry Authorization, got %q", gotAuth)
	}
}

func TestClient_UnauthorizedSideEffect(t *testing.T) {
	t.Parallel()

	var hookCalls atomic.Int32
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}), WithUnauthorizedHook(func() { hookCalls.Add(1) }))

	_ = tokens.Save("stale")

	// The teardown fires regardless of which endpoint took the 401.
	if _, err := c.CurrentIdentity(context.Background()); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, err := tokens.Load(); !errors.Is(err, errs.ErrNoToken) {
		t.Fatalf("persisted token must be erased after 401")
	}
	if hookCalls.Load() != 1 {
		t.Fatalf("hook calls = %d, want 1", hookCalls.Load())
	}

	// A second 401 with the token already gone is still safe.
	if _, err := c.ListTalents(context.Background(), 0, 10, "", ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if hookCalls.Load() != 2 {
		t.Fatalf("hook calls = %d, want 2", hookCalls.Load())
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status  int
		message string
		want    error
	}{
		{http.StatusNotFound, "talent 9 not found", errs.ErrNotFound},
		{http.StatusBadRequest, "email is required", errs.ErrValidation},
		{http.StatusForbidden, "forbidden", errs.ErrForbidden},
		{http.StatusInternalServerError, "boom", errs.ErrServer},
	}
	for _, tc := range cases {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": tc.message})
		}))
		_, err := c.GetTalent(context.Background(), 9)
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: want %v, got %v", tc.status, tc.want, err)
		}
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: error is not *api.Error: %v", tc.status, err)
		}
		if apiErr.Status != tc.status || apiErr.Message != tc.message {
			t.Fatalf("status %d: got %+v", tc.status, apiErr)
		}
	}
}

func TestClient_NetworkErrorMapsToSentinel(t *testing.T) {
	t.Parallel()

	tokens := &token.MemStore{}
	c, err := Open("http://127.0.0.1:1", tokens) // nothing listens there
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := c.ListUsers(context.Background()); !errors.Is(err, errs.ErrNetwork) {
		t.Fatalf("want ErrNetwork, got %v", err)
	}
}

func TestClient_ListTalentsQuery(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(model.Page[model.Talent]{Page: 2, Size: 5})
	}))

	page, err := c.ListTalents(context.Background(), 2, 5, "lastName", "desc")
	if err != nil {
		t.Fatalf("ListTalents: %v", err)
	}
	if gotPath != "/api/talents" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "page=2&size=5&sortBy=lastName&sortDir=desc" {
		t.Fatalf("query = %q", gotQuery)
	}
	if page.Page != 2 || page.Size != 5 {
		t.Fatalf("page = %+v", page)
	}
}

func TestClient_TalentEnvelopeUnwrap(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Talent created successfully",
			"data":    model.Talent{ID: 7, FirstName: "A", LastName: "B", Email: "a@b.com"},
		})
	}))

	created, err := c.CreateTalent(context.Background(), model.Talent{FirstName: "A", LastName: "B", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("CreateTalent: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("created.ID = %d, want server-assigned 7", created.ID)
	}
}

func TestClient_TalentEnvelopeFailure(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "duplicate email"})
	}))

	_, err := c.UpdateTalent(context.Background(), 1, model.Talent{Email: "a@b.com"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation from success=false envelope, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "duplicate email" {
		t.Fatalf("server message lost: %v", err)
	}
}

func TestClient_LoginNormalizesRoles(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok", "id": 1, "username": "root",
			"email": "root@acme.io", "customerId": 1,
			"roles": []string{"ROLE_ADMIN"},
		})
	}))

	res, err := c.Login(context.Background(), "root@acme.io", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(res.Roles) != 1 || res.Roles[0] != model.RoleAdmin {
		t.Fatalf("roles = %v, want normalized [ADMIN]", res.Roles)
	}
}
