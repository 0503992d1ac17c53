package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/httputil"
	"github.com/parasjain182005/Travel-Website/pkg/middleware"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service      *service.UserService
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler. secureCookie marks the
// token cookie Secure and should be set outside development.
func NewAuthHandler(svc *service.UserService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie, logger: logger}
}

// AuthResponse is the payload of a successful register or login.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	Role      string       `json:"role"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setTokenCookie(w, res.Token, res.ExpiresAt)
	httputil.WriteData(w, http.StatusCreated, "Successfully registered", authResponse(res))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setTokenCookie(w, res.Token, res.ExpiresAt)
	httputil.WriteData(w, http.StatusOK, "Successfully logged in", authResponse(res))
}

// Logout handles POST /api/v1/auth/logout. It only clears the cookie;
// issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteData(w, http.StatusOK, "Successfully logged out", nil)
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func authResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:      res.User,
		Token:     res.Token,
		Role:      res.User.Role,
		ExpiresAt: res.ExpiresAt,
	}
}
