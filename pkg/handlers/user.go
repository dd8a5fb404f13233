package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"messengerclone/pkg/user"
)

type UserHandler struct {
	Service user.ServiceInterface
	Logger  *slog.Logger
}

func NewUserHandler(service user.ServiceInterface, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		Service: service,
		Logger:  logger,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	u, err := h.Service.Me(userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, "User not found")
			return
		}
		h.Logger.Error("get me", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	writeJSON(w, h.Logger, u)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var upd user.Update
	if ok := DecodeJSONBody(w, r, &upd); !ok {
		return
	}

	u, err := h.Service.Update(userID, upd)
	if err != nil {
		h.Logger.Error("update user", "user", userID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to update user")
		return
	}

	writeJSON(w, h.Logger, u)
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.All()
	if err != nil {
		h.Logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	writeJSON(w, h.Logger, users)
}

func (h *UserHandler) Settings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	settings, err := h.Service.SettingsFor(userID)
	if err != nil {
		h.Logger.Error("get settings", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	writeJSON(w, h.Logger, settings)
}

func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var settings user.Settings
	if ok := DecodeJSONBody(w, r, &settings); !ok {
		return
	}

	updated, err := h.Service.UpdateSettings(userID, &settings)
	if err != nil {
		h.Logger.Error("update settings", "user", userID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to update settings")
		return
	}

	writeJSON(w, h.Logger, updated)
}

// Delete removes a user and everything they own. Admin-panel route.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromContext(w, r); !ok {
		return
	}

	targetID, err := int64Var(r, muxVarUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid user id")
		return
	}

	if err := h.Service.Delete(targetID); err != nil {
		h.Logger.Error("delete user", "user", targetID, "error", err)
		writeError(w, http.StatusInternalServerError, typeMessage, "Failed to delete user")
		return
	}

	WriteResp(w, h.Logger, map[string]any{"success": true}, http.StatusOK)
}
