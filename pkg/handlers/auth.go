package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"messengerclone/pkg/session"
	"messengerclone/pkg/user"
)

type LoginForm struct {
	Phone string `json:"phone"`
}

type VerifyForm struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Disconnector closes a user's realtime connection on logout.
type Disconnector interface {
	Disconnect(userID int64)
}

type AuthHandler struct {
	Users    user.ServiceInterface
	Sessions *session.Registry
	Gateway  Disconnector
	Logger   *slog.Logger
}

func NewAuthHandler(users user.ServiceInterface, sessions *session.Registry, gateway Disconnector, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Users:    users,
		Sessions: sessions,
		Gateway:  gateway,
		Logger:   logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	if err := h.Users.RequestCode(req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "Invalid phone number")
		return
	}

	WriteResp(w, h.Logger, map[string]any{"success": true, "message": "Code sent"}, http.StatusOK)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Users.Verify(req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCode) || errors.Is(err, user.ErrInvalidPhone) {
			writeError(w, http.StatusBadRequest, typeMessage, "Invalid code")
			return
		}
		h.Logger.Error("verify", "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Authentication failed")
		return
	}

	token, err := h.Sessions.Create(u.ID)
	if err != nil {
		h.Logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, typeMessage, "Authentication failed")
		return
	}

	if ok := WriteResp(w, h.Logger, map[string]any{
		"success":   true,
		"user":      u,
		"sessionId": token,
	}, http.StatusOK); ok {
		h.Logger.Info("login", "user", u.ID)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" {
		if userID, err := h.Sessions.Resolve(token); err == nil {
			offline := false
			if _, err := h.Users.Update(userID, user.Update{IsOnline: &offline}); err != nil {
				h.Logger.Error("logout", "user", userID, "error", err)
			}
			h.Sessions.Revoke(token)
			h.Gateway.Disconnect(userID)
		}
	}
	WriteResp(w, h.Logger, map[string]any{"success": true}, http.StatusOK)
}
