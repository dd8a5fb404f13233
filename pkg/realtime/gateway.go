package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"messengerclone/pkg/session"
)

// Gateway owns the lifecycle of every realtime connection: handshake
// against the session registry, registration in the directory, the read
// loop while active, and deregistration on close. Reconnecting after a
// drop is the client's job.
type Gateway struct {
	Sessions  *session.Registry
	Directory *Directory
	Fanout    *Fanout
	Resolver  Resolver
	Logger    *slog.Logger
	upgrader  websocket.Upgrader
}

func NewGateway(sessions *session.Registry, dir *Directory, fanout *Fanout, resolver Resolver, logger *slog.Logger) *Gateway {
	return &Gateway{
		Sessions:  sessions,
		Directory: dir,
		Fanout:    fanout,
		Resolver:  resolver,
		Logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxFrameSize,
			WriteBufferSize: maxFrameSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades an inbound connection. The session token arrives in
// the sessionId query parameter of the upgrade request, so there is no
// half-open wait for credentials: no token or a bad token is rejected
// before the upgrade completes.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("sessionId")
	if token == "" {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	userID, err := g.Sessions.Resolve(token)
	if err != nil {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.Logger.Error("ws upgrade", "error", err)
		return
	}

	conn := newConn(userID, ws)
	// one live connection per user: a fresh login replaces the old
	// handle, and the gateway closes what it displaced
	if prev := g.Directory.Register(userID, conn); prev != nil {
		prev.Close()
	}

	go conn.writePump()
	g.readLoop(conn)

	g.Directory.Unregister(userID, conn)
	conn.Close()
}

func (g *Gateway) readLoop(c *Conn) {
	c.ws.SetReadLimit(maxFrameSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				g.Logger.Info("ws read", "user", c.userID, "error", err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			g.Logger.Info("ws bad frame", "user", c.userID, "error", err)
			continue
		}

		switch frame.Type {
		case frameTyping:
			g.handleTyping(c.userID, frame.ChatID)
		}
	}
}

// handleTyping fans a typing indicator out to the chat's other members.
// Senders who are not members get nothing fanned out on their behalf.
func (g *Gateway) handleTyping(userID, chatID int64) {
	targets, err := g.Resolver.MemberIDs(chatID)
	if err != nil {
		g.Logger.Error("typing fanout abandoned", "chatId", chatID, "error", err)
		return
	}

	member := false
	for _, id := range targets {
		if id == userID {
			member = true
			break
		}
	}
	if !member {
		return
	}

	g.Fanout.Deliver(UserTypingFrame(userID, chatID), targets, userID)
}

// Disconnect closes a user's live connection, if any. Used on logout;
// the connection's own teardown then unregisters it.
func (g *Gateway) Disconnect(userID int64) {
	if h := g.Directory.Lookup(userID); h != nil {
		h.Close()
	}
}
