package realtime_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"messengerclone/pkg/call"
	"messengerclone/pkg/message"
	"messengerclone/pkg/realtime"
)

type stubResolver struct {
	members map[int64][]int64
	err     error
}

func (r *stubResolver) MemberIDs(chatID int64) ([]int64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.members[chatID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
}

func decodeFrame(t *testing.T, payload []byte) realtime.Frame {
	t.Helper()
	var f realtime.Frame
	assert.NoError(t, json.Unmarshal(payload, &f))
	return f
}

func TestFanout_DeliverSkipsUnreachable(t *testing.T) {
	dir := realtime.NewDirectory()
	h1 := newFakeHandle()
	h2 := newFakeHandle()
	dir.Register(1, h1)
	dir.Register(2, h2)
	// member 3 never connects

	f := realtime.NewFanout(dir, &stubResolver{}, testLogger())
	msg := &message.Message{ID: "m1", ChatID: 10, Content: "hi"}
	f.Deliver(realtime.NewMessageFrame(msg), []int64{1, 2, 3}, 0)

	assert.Len(t, h1.received(), 1)
	assert.Len(t, h2.received(), 1)

	frame := decodeFrame(t, h1.received()[0])
	assert.Equal(t, realtime.FrameNewMessage, frame.Type)
	assert.Equal(t, "hi", frame.Message.Content)
}

func TestFanout_DeliverSkipsClosedHandle(t *testing.T) {
	dir := realtime.NewDirectory()
	h := newFakeHandle()
	h.Close()
	dir.Register(1, h)

	f := realtime.NewFanout(dir, &stubResolver{}, testLogger())
	f.Deliver(realtime.UserTypingFrame(2, 10), []int64{1}, 0)

	assert.Empty(t, h.received())
}

func TestFanout_TypingExcludesSender(t *testing.T) {
	dir := realtime.NewDirectory()
	sender := newFakeHandle()
	other := newFakeHandle()
	dir.Register(1, sender)
	dir.Register(2, other)

	f := realtime.NewFanout(dir, &stubResolver{}, testLogger())
	f.Deliver(realtime.UserTypingFrame(1, 10), []int64{1, 2}, 1)

	assert.Empty(t, sender.received(), "typing indicator must not echo to its sender")
	assert.Len(t, other.received(), 1)

	frame := decodeFrame(t, other.received()[0])
	assert.Equal(t, realtime.FrameUserTyping, frame.Type)
	assert.Equal(t, int64(1), frame.UserID)
	assert.Equal(t, int64(10), frame.ChatID)
}

func TestFanout_NewMessageIncludesSender(t *testing.T) {
	dir := realtime.NewDirectory()
	sender := newFakeHandle()
	other := newFakeHandle()
	dir.Register(1, sender)
	dir.Register(2, other)

	resolver := &stubResolver{members: map[int64][]int64{10: {1, 2}}}
	f := realtime.NewFanout(dir, resolver, testLogger())

	msg := &message.Message{ID: "m1", ChatID: 10, Sender: message.Sender{ID: 1}, Content: "hi"}
	f.NewMessage(msg)

	assert.Len(t, sender.received(), 1, "new_message goes to the sender too")
	assert.Len(t, other.received(), 1)
}

func TestFanout_PreservesPersistOrder(t *testing.T) {
	dir := realtime.NewDirectory()
	h := newFakeHandle()
	dir.Register(1, h)

	resolver := &stubResolver{members: map[int64][]int64{10: {1}}}
	f := realtime.NewFanout(dir, resolver, testLogger())

	for i := 0; i < 5; i++ {
		f.NewMessage(&message.Message{ChatID: 10, Content: string(rune('a' + i)), CreatedAt: time.Now()})
	}

	got := h.received()
	assert.Len(t, got, 5)
	for i, payload := range got {
		frame := decodeFrame(t, payload)
		assert.Equal(t, string(rune('a'+i)), frame.Message.Content)
	}
}

func TestFanout_AbandonsOnResolverFailure(t *testing.T) {
	dir := realtime.NewDirectory()
	h := newFakeHandle()
	dir.Register(1, h)

	resolver := &stubResolver{err: errors.New("store unavailable")}
	f := realtime.NewFanout(dir, resolver, testLogger())

	// must not panic or propagate; the triggering write already succeeded
	f.NewMessage(&message.Message{ChatID: 10, Content: "hi"})

	assert.Empty(t, h.received())
}

func TestFanout_IncomingCallTargetsReceiverOnly(t *testing.T) {
	dir := realtime.NewDirectory()
	caller := newFakeHandle()
	receiver := newFakeHandle()
	dir.Register(1, caller)
	dir.Register(2, receiver)

	f := realtime.NewFanout(dir, &stubResolver{}, testLogger())
	f.IncomingCall(&call.Call{ID: 5, CallerID: 1, ReceiverID: 2, Type: "voice"})

	assert.Empty(t, caller.received())
	assert.Len(t, receiver.received(), 1)

	frame := decodeFrame(t, receiver.received()[0])
	assert.Equal(t, realtime.FrameIncomingCall, frame.Type)
	assert.Equal(t, int64(5), frame.Call.ID)
}
