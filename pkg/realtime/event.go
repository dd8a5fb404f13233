package realtime

import (
	"messengerclone/pkg/call"
	"messengerclone/pkg/message"
)

// Outbound frame discriminators.
const (
	FrameNewMessage   = "new_message"
	FrameIncomingCall = "incoming_call"
	FrameUserTyping   = "user_typing"
)

// Inbound client frame discriminators.
const frameTyping = "typing"

// Frame is one JSON object on the realtime channel. Type tells the
// client which payload fields are set.
type Frame struct {
	Type    string           `json:"type"`
	Message *message.Message `json:"message,omitempty"`
	Call    *call.Call       `json:"call,omitempty"`
	UserID  int64            `json:"userId,omitempty"`
	ChatID  int64            `json:"chatId,omitempty"`
}

func NewMessageFrame(msg *message.Message) *Frame {
	return &Frame{Type: FrameNewMessage, Message: msg}
}

func IncomingCallFrame(c *call.Call) *Frame {
	return &Frame{Type: FrameIncomingCall, Call: c}
}

func UserTypingFrame(userID, chatID int64) *Frame {
	return &Frame{Type: FrameUserTyping, UserID: userID, ChatID: chatID}
}

// clientFrame is what connected clients send to the gateway.
type clientFrame struct {
	Type   string `json:"type"`
	ChatID int64  `json:"chatId"`
}
