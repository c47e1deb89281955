package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lanekeeper/lanekeeper/internal/handler/dto"
	"github.com/lanekeeper/lanekeeper/internal/middleware"
	"github.com/lanekeeper/lanekeeper/internal/service"
)

// AccountHandler handles registration, login and logout.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	auth, err := h.svc.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", auth.User.ID)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: auth.Token,
		User:  auth.User,
	})
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	auth, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", auth.User.ID)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: auth.Token,
		User:  auth.User,
	})
}

// Logout handles POST /api/logout. The token may arrive in the X-Auth-Token
// header, an Authorization: Bearer header, or a {"token": ...} body.
// Logging out an absent token still succeeds.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := logoutToken(r)

	if err := h.svc.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

func logoutToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(middleware.AuthTokenHeader)); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		return strings.TrimSpace(body.Token)
	}
	return ""
}
