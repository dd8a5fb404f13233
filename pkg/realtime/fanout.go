package realtime

import (
	"encoding/json"
	"log/slog"

	"messengerclone/pkg/call"
	"messengerclone/pkg/message"
)

// Resolver supplies the member set of a chat. Backed by storage; may fail.
type Resolver interface {
	MemberIDs(chatID int64) ([]int64, error)
}

// Fanout pushes events to connected recipients. Delivery is fire and
// forget: disconnected or slow recipients are skipped silently, nothing
// is queued or retried, and no failure ever reaches the caller that
// persisted the triggering write. Fanout runs synchronously in the
// persisting request, so per chat, frames reach each recipient in
// persisted order.
type Fanout struct {
	Directory *Directory
	Resolver  Resolver
	Logger    *slog.Logger
}

func NewFanout(dir *Directory, resolver Resolver, logger *slog.Logger) *Fanout {
	return &Fanout{Directory: dir, Resolver: resolver, Logger: logger}
}

// Deliver sends the frame to every target except exclude (0 excludes
// nobody). Typing indicators exclude their sender; new_message and
// incoming_call frames do not.
func (f *Fanout) Deliver(frame *Frame, targets []int64, exclude int64) {
	payload, err := json.Marshal(frame)
	if err != nil {
		f.Logger.Error("fanout marshal", "type", frame.Type, "error", err)
		return
	}

	for _, id := range targets {
		if exclude != 0 && id == exclude {
			continue
		}
		h := f.Directory.Lookup(id)
		if h == nil || !h.IsOpen() {
			continue // unreachable recipient, normal skip
		}
		h.Send(payload)
	}
}

// DeliverChat resolves the chat's members and delivers to them. When the
// resolver fails the fanout for this event is abandoned and logged, never
// retried; the write that triggered it already succeeded on its own.
func (f *Fanout) DeliverChat(chatID int64, frame *Frame, exclude int64) {
	targets, err := f.Resolver.MemberIDs(chatID)
	if err != nil {
		f.Logger.Error("fanout abandoned", "chatId", chatID, "type", frame.Type, "error", err)
		return
	}
	f.Deliver(frame, targets, exclude)
}

// NewMessage fans a persisted message out to all chat members, the
// sender included, so every client converges on the stored thread.
func (f *Fanout) NewMessage(msg *message.Message) {
	f.DeliverChat(msg.ChatID, NewMessageFrame(msg), 0)
}

// IncomingCall notifies only the callee.
func (f *Fanout) IncomingCall(c *call.Call) {
	f.Deliver(IncomingCallFrame(c), []int64{c.ReceiverID}, 0)
}
