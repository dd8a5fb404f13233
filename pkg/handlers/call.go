package handlers

import (
	"log/slog"
	"net/http"

	"messengerclone/pkg/call"
)

type CreateCallForm struct {
	ReceiverID int64  `json:"receiverId"`
	Type       string `json:"type"`
}

type CallHandler struct {
	Service  call.ServiceInterface
	Notifier Notifier
	Logger   *slog.Logger
}

func NewCallHandler(service call.ServiceInterface, notifier Notifier, logger *slog.Logger) *CallHandler {
	return &CallHandler{
		Service:  service,
		Notifier: notifier,
		Logger:   logger,
	}
}

func (h *CallHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateCallForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if req.ReceiverID == 0 || req.Type == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to initiate call")
		return
	}

	c, err := h.Service.Create(userID, req.ReceiverID, req.Type)
	if err != nil {
		h.Logger.Error("create call", "caller", userID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to initiate call")
		return
	}

	h.Notifier.IncomingCall(c)

	writeJSON(w, h.Logger, c)
}

func (h *CallHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromContext(w, r); !ok {
		return
	}

	callID, err := int64Var(r, muxVarCallID)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid call id")
		return
	}

	var upd call.Update
	if ok := DecodeJSONBody(w, r, &upd); !ok {
		return
	}

	c, err := h.Service.Update(callID, upd)
	if err != nil {
		h.Logger.Error("update call", "call", callID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to update call")
		return
	}

	writeJSON(w, h.Logger, c)
}

func (h *CallHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	calls, err := h.Service.UserCalls(userID)
	if err != nil {
		h.Logger.Error("list calls", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	writeJSON(w, h.Logger, calls)
}
