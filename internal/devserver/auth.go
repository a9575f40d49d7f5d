package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/semanticsaas/talentctl/internal/model"
)

const identityKey = "identity"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	CompanyName string `json:"companyName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// login mirrors the real backend: bad credentials come back as a 400
// envelope, not a 401; 401 is reserved for rejected tokens.
func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid payload"})
	}

	s.mu.Lock()
	rec, ok := s.findUserByEmail(req.Email)
	s.mu.Unlock()
	if !ok || !rec.Enabled || bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Invalid email or password"})
	}

	tok, err := s.issueToken(rec.ID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "token issue failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token":      tok,
		"id":         rec.ID,
		"username":   rec.Username,
		"email":      rec.Email,
		"firstName":  rec.FirstName,
		"lastName":   rec.LastName,
		"customerId": rec.CustomerID,
		"roles":      rec.Roles,
	})
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid payload"})
	}
	if req.CompanyName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "companyName, email and password are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.findUserByEmail(req.Email); exists {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "hash failed")
	}
	id := s.nextUserID
	s.nextUserID++
	s.users[id] = userRecord{
		User: model.User{
			ID:         id,
			CustomerID: id, // each signup is its own customer
			Username:   strings.Split(req.Email, "@")[0],
			Email:      req.Email,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Enabled:    true,
			Roles:      []string{"ROLE_ADMIN"},
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		},
		passwordHash: hash,
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Customer registered successfully with ID: " + strconv.FormatInt(id, 10)})
}

func (s *Server) me(c echo.Context) error {
	rec := c.Get(identityKey).(userRecord)
	return c.JSON(http.StatusOK, model.Identity{
		ID:         rec.ID,
		Username:   rec.Username,
		Email:      rec.Email,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Roles:      rec.Roles,
		CustomerID: rec.CustomerID,
	})
}

func (s *Server) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// requireAuth validates the bearer token and injects the account into the
// request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return errorJSON(c, http.StatusUnauthorized, "missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization header")
		}

		var claims jwt.RegisteredClaims
		tok, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !tok.Valid {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return errorJSON(c, http.StatusUnauthorized, "invalid token subject")
		}

		s.mu.Lock()
		rec, ok := s.users[userID]
		s.mu.Unlock()
		if !ok || !rec.Enabled {
			return errorJSON(c, http.StatusUnauthorized, "account unknown or disabled")
		}

		c.Set(identityKey, rec)
		return next(c)
	}
}

// requireRoles enforces a role whitelist on top of requireAuth.
func (s *Server) requireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[model.NormalizeRole(r)] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rec, _ := c.Get(identityKey).(userRecord)
			for _, r := range rec.Roles {
				if _, ok := allowed[model.NormalizeRole(r)]; ok {
					return next(c)
				}
			}
			return errorJSON(c, http.StatusForbidden, "forbidden")
		}
	}
}

// findUserByEmail must be called with s.mu held.
func (s *Server) findUserByEmail(email string) (userRecord, bool) {
	for _, rec := range s.users {
		if strings.EqualFold(rec.Email, email) {
			return rec, true
		}
	}
	return userRecord{}, false
}
