package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/models"
	"github.com/veldrane/coinfolio/internal/storage"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   "coinfolio-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// requireUser returns the authenticated user context, or writes a 401 and
// returns nil.
func requireUser(w http.ResponseWriter, r *http.Request) *common.UserContext {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil || uc.UserID == "" {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return nil
	}
	return uc
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // seconds
	User      *models.User `json:"user"`
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	users := s.app.Storage.UserStore()
	if _, err := users.GetUserByEmail(r.Context(), req.Email); err == nil {
		WriteError(w, http.StatusConflict, "An account with that email already exists")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		WriteError(w, http.StatusInternalServerError, "Failed to check existing accounts")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:       uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.SaveUser(r.Context(), user); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	s.logger.Info().Str("user", user.UserID).Msg("account registered")

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	WriteJSON(w, http.StatusCreated, authResponse{
		Token:     token,
		ExpiresIn: int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
		User:      user,
	})
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Storage.UserStore().GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		// Same response for unknown email and bad password.
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info().Str("user", user.UserID).Msg("login")

	WriteJSON(w, http.StatusOK, authResponse{
		Token:     token,
		ExpiresIn: int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
		User:      user,
	})
}

// handleAuthValidate handles GET /api/auth/validate. The bearer middleware
// already rejected invalid tokens; reaching here with a user context means
// the token is good.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"user_id": uc.UserID,
		"email":   uc.Email,
		"name":    uc.Name,
	})
}

// handleAuthSession handles DELETE /api/auth/session (sign-out). Tokens are
// stateless, so sign-out just evicts the user's cached portfolio state.
func (s *Server) handleAuthSession(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	s.app.PortfolioService.EvictCache(uc.UserID)
	s.logger.Info().Str("user", uc.UserID).Msg("session cache evicted")

	WriteJSON(w, http.StatusOK, map[string]interface{}{"signed_out": true})
}
