package devserver

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/semanticsaas/talentctl/internal/model"
)

// public strips the write-only password field.
func public(rec userRecord) model.User {
	u := rec.User
	u.Password = ""
	return u
}

func (s *Server) snapshotUsers(customerID int64) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, rec := range s.users {
		if customerID != 0 && rec.CustomerID != customerID {
			continue
		}
		out = append(out, public(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.snapshotUsers(0))
}

func (s *Server) listUsersByCustomer(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid customer id")
	}
	return c.JSON(http.StatusOK, s.snapshotUsers(id))
}

func (s *Server) getUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	rec, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		return errorJSON(c, http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, public(rec))
}

func (s *Server) createUser(c echo.Context) error {
	var u model.User
	if err := c.Bind(&u); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if u.Username == "" || u.Email == "" || u.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username, email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.findUserByEmail(u.Email); exists {
		return errorJSON(c, http.StatusBadRequest, "email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "hash failed")
	}

	u.ID = s.nextUserID
	s.nextUserID++
	u.Password = ""
	u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = userRecord{User: u, passwordHash: hash}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	var u model.User
	if err := c.Bind(&u); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.users[id]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "user not found")
	}

	hash := prev.passwordHash
	if u.Password != "" {
		if hash, err = bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "hash failed")
		}
	}
	u.ID = id
	u.Password = ""
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	s.users[id] = userRecord{User: u, passwordHash: hash}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	_, ok := s.users[id]
	delete(s.users, id)
	s.mu.Unlock()
	if !ok {
		return errorJSON(c, http.StatusNotFound, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}
