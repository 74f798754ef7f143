package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sahdev/shopsync/internal/domain"
)

type ctxKey int

const userKey ctxKey = iota

// Claims is the token payload the stub issues and verifies.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// requireAuth verifies the bearer token and puts the user on the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims,
			func(t *jwt.Token) (interface{}, error) { return s.jwtSecret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		user := &domain.User{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// requireAdmin must be nested inside requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := currentUser(r.Context()); !user.IsAdmin() {
			respondError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username and email are required")
		return
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "weak_password", "password must be at least 6 characters")
		return
	}

	user, err := s.store.CreateUser(req.Username, req.Email, req.Password, req.FullName, domain.RoleUser)
	if err != nil {
		respondError(w, http.StatusBadRequest, "user_exists", "username or email already exists")
		return
	}

	s.respondAuth(w, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	s.respondAuth(w, user)
}

func (s *Server) respondAuth(w http.ResponseWriter, user *domain.User) {
	token, err := s.issueToken(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, domain.AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}
