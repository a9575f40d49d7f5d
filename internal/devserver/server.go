// Package devserver is an in-memory implementation of the remote talent API
// contract. It backs the gateway's integration tests and local development;
// it is not a product component and holds no durable state.
package devserver

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/semanticsaas/talentctl/internal/model"
)

const tokenTTL = 24 * time.Hour

type userRecord struct {
	model.User
	passwordHash []byte
}

// Server holds the in-memory collections and the echo instance serving them.
type Server struct {
	e         *echo.Echo
	jwtSecret []byte
	logger    *zap.Logger

	mu           sync.Mutex
	talents      map[int64]model.Talent
	users        map[int64]userRecord
	nextTalentID int64
	nextUserID   int64
}

// New builds a server seeded with one enabled admin account
// (admin@acme.test / admin1234, customer 1). logger may be nil.
func New(jwtSecret string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		jwtSecret:    []byte(jwtSecret),
		logger:       logger.Named("devserver"),
		talents:      make(map[int64]model.Talent),
		users:        make(map[int64]userRecord),
		nextTalentID: 1,
		nextUserID:   1,
	}
	s.seedAdmin()
	s.routes()
	return s
}

func (s *Server) seedAdmin() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	id := s.nextUserID
	s.nextUserID++
	s.users[id] = userRecord{
		User: model.User{
			ID:         id,
			CustomerID: 1,
			Username:   "admin",
			Email:      "admin@acme.test",
			FirstName:  "Admin",
			LastName:   "Root",
			Enabled:    true,
			// prefixed spelling on purpose: the real backend emits it and
			// clients must cope
			Roles:     []string{"ROLE_ADMIN"},
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		passwordHash: hash,
	}
}

func (s *Server) routes() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	api := e.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)

	authed := api.Group("", s.requireAuth)
	authed.GET("/auth/me", s.me)

	authed.GET("/talents", s.listTalents)
	authed.GET("/talents/search", s.searchTalents)
	authed.GET("/talents/count", s.countTalents)
	authed.GET("/talents/:id", s.getTalent)
	authed.POST("/talents", s.createTalent)
	authed.PUT("/talents/:id", s.updateTalent)
	authed.DELETE("/talents/:id", s.deleteTalent)

	authed.GET("/users", s.listUsers)
	authed.GET("/users/customer/:id", s.listUsersByCustomer)
	authed.GET("/users/:id", s.getUser)

	admin := authed.Group("", s.requireRoles(model.RoleAdmin))
	admin.POST("/users", s.createUser)
	admin.PUT("/users/:id", s.updateUser)
	admin.DELETE("/users/:id", s.deleteUser)

	s.e = e
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler { return s.e }

// Start blocks serving on addr.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

// Shutdown stops the listener, draining in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// envelope is the {success,message,data} wrapper used by talent writes.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

// pageOf slices a sorted collection into one Spring-style page.
func pageOf[T any](items []T, page, size int) model.Page[T] {
	total := len(items)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return model.Page[T]{
		Content:       items[start:end],
		Page:          page,
		Size:          size,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

func sortTalents(items []model.Talent, sortBy, sortDir string) {
	desc := strings.EqualFold(sortDir, "desc")
	less := func(a, b model.Talent) bool { return a.ID < b.ID }
	switch sortBy {
	case "firstName":
		less = func(a, b model.Talent) bool { return a.FirstName < b.FirstName }
	case "lastName":
		less = func(a, b model.Talent) bool { return a.LastName < b.LastName }
	case "email":
		less = func(a, b model.Talent) bool { return a.Email < b.Email }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
