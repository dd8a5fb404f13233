package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"messengerclone/pkg/chat"
)

type ChatHandler struct {
	Service chat.ServiceInterface
	Logger  *slog.Logger
}

type AddMemberForm struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

func NewChatHandler(service chat.ServiceInterface, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		Service: service,
		Logger:  logger,
	}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	chats, err := h.Service.UserChats(userID)
	if err != nil {
		h.Logger.Error("list chats", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	writeJSON(w, h.Logger, chats)
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var c chat.Chat
	if ok := DecodeJSONBody(w, r, &c); !ok {
		return
	}

	created, err := h.Service.Create(&c, userID)
	if err != nil {
		h.Logger.Error("create chat", "user", userID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to create chat")
		return
	}

	writeJSON(w, h.Logger, created)
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	chatID, err := int64Var(r, muxVarChatID)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid chat id")
		return
	}

	c, err := h.Service.Get(chatID, userID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNotFound):
			writeError(w, http.StatusNotFound, typeMessage, "Chat not found")
		case errors.Is(err, chat.ErrForbidden):
			writeError(w, http.StatusForbidden, typeMessage, "Access denied")
		default:
			h.Logger.Error("get chat", "chat", chatID, "error", err)
			writeError(w, http.StatusInternalServerError, typeError, err.Error())
		}
		return
	}

	writeJSON(w, h.Logger, c)
}

func (h *ChatHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	chatID, err := int64Var(r, muxVarChatID)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid chat id")
		return
	}

	var req AddMemberForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	member, err := h.Service.AddMember(chatID, userID, req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, chat.ErrForbidden) {
			writeError(w, http.StatusForbidden, typeMessage, "Admin access required")
			return
		}
		h.Logger.Error("add member", "chat", chatID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to add member")
		return
	}

	writeJSON(w, h.Logger, member)
}
