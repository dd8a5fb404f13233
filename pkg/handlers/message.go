package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"messengerclone/pkg/call"
	"messengerclone/pkg/chat"
	"messengerclone/pkg/message"
	"messengerclone/pkg/user"
)

// Notifier fans persisted events out to connected clients. Fanout
// happens after the write and its outcome never changes the response.
type Notifier interface {
	NewMessage(msg *message.Message)
	IncomingCall(c *call.Call)
}

type SendMessageForm struct {
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
}

type MessageHandler struct {
	Chats    chat.ServiceInterface
	Messages message.ServiceInterface
	Users    user.ServiceInterface
	Notifier Notifier
	Logger   *slog.Logger
}

func NewMessageHandler(chats chat.ServiceInterface, messages message.ServiceInterface, users user.ServiceInterface, notifier Notifier, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		Chats:    chats,
		Messages: messages,
		Users:    users,
		Notifier: notifier,
		Logger:   logger,
	}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	chatID, err := int64Var(r, muxVarChatID)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid chat id")
		return
	}

	if _, err := h.Chats.Membership(chatID, userID); err != nil {
		writeError(w, http.StatusForbidden, typeMessage, "Access denied")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.Messages.ChatMessages(chatID, limit, offset)
	if err != nil {
		h.Logger.Error("list messages", "chat", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	writeJSON(w, h.Logger, messages)
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	chatID, err := int64Var(r, muxVarChatID)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid chat id")
		return
	}

	if _, err := h.Chats.Membership(chatID, userID); err != nil {
		writeError(w, http.StatusForbidden, typeMessage, "Access denied")
		return
	}

	var req SendMessageForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to send message")
		return
	}

	sender, err := h.Users.Me(userID)
	if err != nil {
		h.Logger.Error("send message", "user", userID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to send message")
		return
	}

	msg, err := h.Messages.Create(chatID, sender, req.Content, req.MessageType)
	if err != nil {
		h.Logger.Error("send message", "chat", chatID, "error", err)
		writeError(w, http.StatusBadRequest, typeMessage, "Failed to send message")
		return
	}

	// the message is durable at this point; fanout is best-effort
	h.Notifier.NewMessage(msg)

	writeJSON(w, h.Logger, msg)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	messageID := mux.Vars(r)[muxVarMessageID]

	if err := h.Messages.MarkRead(messageID, userID); err != nil {
		if errors.Is(err, message.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, "Message not found")
			return
		}
		h.Logger.Error("mark read", "message", messageID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, err.Error())
		return
	}

	WriteResp(w, h.Logger, map[string]any{"success": true}, http.StatusOK)
}
