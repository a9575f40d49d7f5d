package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/semanticsaas/talentctl/internal/model"
)

func pagingParams(c echo.Context) (page, size int, err error) {
	page, size = 0, 10
	if v := c.QueryParam("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page must be >= 0")
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size <= 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "size must be > 0")
		}
	}
	return page, size, nil
}

func (s *Server) snapshotTalents() []model.Talent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Talent, 0, len(s.talents))
	for _, t := range s.talents {
		out = append(out, t)
	}
	return out
}

func (s *Server) listTalents(c echo.Context) error {
	page, size, err := pagingParams(c)
	if err != nil {
		return err
	}
	items := s.snapshotTalents()
	sortTalents(items, c.QueryParam("sortBy"), c.QueryParam("sortDir"))
	return c.JSON(http.StatusOK, pageOf(items, page, size))
}

func (s *Server) searchTalents(c echo.Context) error {
	page, size, err := pagingParams(c)
	if err != nil {
		return err
	}
	keyword := strings.ToLower(c.QueryParam("keyword"))

	var matches []model.Talent
	for _, t := range s.snapshotTalents() {
		hay := strings.ToLower(strings.Join([]string{t.FirstName, t.LastName, t.Email, t.Skills, t.Location}, " "))
		if strings.Contains(hay, keyword) {
			matches = append(matches, t)
		}
	}
	sortTalents(matches, "", "")
	return c.JSON(http.StatusOK, pageOf(matches, page, size))
}

func (s *Server) countTalents(c echo.Context) error {
	s.mu.Lock()
	n := len(s.talents)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "ok", Data: n})
}

func (s *Server) getTalent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	t, ok := s.talents[id]
	s.mu.Unlock()
	if !ok {
		return errorJSON(c, http.StatusNotFound, "talent not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) createTalent(c echo.Context) error {
	var t model.Talent
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid payload"})
	}
	if t.FirstName == "" || t.LastName == "" || t.Email == "" {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "firstName, lastName and email are required"})
	}

	s.mu.Lock()
	t.ID = s.nextTalentID
	s.nextTalentID++
	now := time.Now().UTC().Format(time.RFC3339)
	t.CreatedAt = now
	t.UpdatedAt = now
	s.talents[t.ID] = t
	s.mu.Unlock()

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Talent created successfully", Data: t})
}

func (s *Server) updateTalent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	var t model.Talent
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid payload"})
	}

	s.mu.Lock()
	prev, ok := s.talents[id]
	if ok {
		t.ID = id
		t.CreatedAt = prev.CreatedAt
		t.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		s.talents[id] = t
	}
	s.mu.Unlock()
	if !ok {
		return errorJSON(c, http.StatusNotFound, "talent not found")
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Talent updated successfully", Data: t})
}

func (s *Server) deleteTalent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	_, ok := s.talents[id]
	delete(s.talents, id)
	s.mu.Unlock()
	if !ok {
		return errorJSON(c, http.StatusNotFound, "talent not found")
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Talent deleted successfully"})
}
