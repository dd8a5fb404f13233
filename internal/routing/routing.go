package routing

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"messengerclone/pkg/call"
	"messengerclone/pkg/chat"
	"messengerclone/pkg/handlers"
	"messengerclone/pkg/message"
	"messengerclone/pkg/realtime"
	"messengerclone/pkg/session"
	"messengerclone/pkg/user"
)

const staticPath = "./static"

// InitRoutes wires repositories, services and handlers onto the /api
// subrouter and returns the realtime gateway for mounting at /ws.
func InitRoutes(api *mux.Router, db *sql.DB, mongoDB *mongo.Database, sessions *session.Registry, logger *slog.Logger) *realtime.Gateway {

	messageRepo := message.NewMongoRepo(mongoDB)
	messageService := message.NewService(messageRepo)

	userService := user.NewService(user.NewMySQLRepo(db), messageRepo)
	chatService := chat.NewService(chat.NewMySQLRepo(db), messageRepo)
	callService := call.NewService(call.NewMySQLRepo(db))

	directory := realtime.NewDirectory()
	fanout := realtime.NewFanout(directory, chatService, logger)
	gateway := realtime.NewGateway(sessions, directory, fanout, chatService, logger)

	authHandler := handlers.NewAuthHandler(userService, sessions, gateway, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)
	messageHandler := handlers.NewMessageHandler(chatService, messageService, userService, fanout, logger)
	callHandler := handlers.NewCallHandler(callService, fanout, logger)

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	authRouter := api.PathPrefix("/auth").Subrouter()
	usersRouter := api.PathPrefix("/users").Subrouter()
	chatsRouter := api.PathPrefix("/chats").Subrouter()
	messagesRouter := api.PathPrefix("/messages").Subrouter()
	callsRouter := api.PathPrefix("/calls").Subrouter()
	adminRouter := api.PathPrefix("/admin").Subrouter()

	/* auth routers */
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST").Name("login")
	authRouter.HandleFunc("/verify", authHandler.Verify).Methods("POST").Name("verify")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("POST").Name("logout")

	/* user routers */
	usersRouter.HandleFunc("/me", userHandler.Me).Methods("GET")
	usersRouter.HandleFunc("/me", userHandler.UpdateMe).Methods("PUT")
	usersRouter.HandleFunc("/settings", userHandler.Settings).Methods("GET")
	usersRouter.HandleFunc("/settings", userHandler.UpdateSettings).Methods("PUT")
	usersRouter.HandleFunc("", userHandler.GetAll).Methods("GET")

	/* chat routers */
	chatsRouter.HandleFunc("", chatHandler.List).Methods("GET")
	chatsRouter.HandleFunc("", chatHandler.Create).Methods("POST")
	chatsRouter.HandleFunc("/{chat_id:[0-9]+}", chatHandler.Get).Methods("GET")
	chatsRouter.HandleFunc("/{chat_id:[0-9]+}/members", chatHandler.AddMember).Methods("POST")
	chatsRouter.HandleFunc("/{chat_id:[0-9]+}/messages", messageHandler.List).Methods("GET")
	chatsRouter.HandleFunc("/{chat_id:[0-9]+}/messages", messageHandler.Send).Methods("POST")

	/* message routers */
	messagesRouter.HandleFunc("/{message_id:[a-zA-Z0-9]+}/read", messageHandler.MarkRead).Methods("PUT")

	/* call routers */
	callsRouter.HandleFunc("", callHandler.Create).Methods("POST")
	callsRouter.HandleFunc("", callHandler.List).Methods("GET")
	callsRouter.HandleFunc("/{call_id:[0-9]+}", callHandler.Update).Methods("PUT")

	/* admin routers */
	adminRouter.HandleFunc("/users/{user_id:[0-9]+}", userHandler.Delete).Methods("DELETE")

	return gateway
}

func ServeStaticFiles(r *mux.Router) {
	fs := http.FileServer(http.Dir(staticPath))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
}

func ServeFallback(r *mux.Router, logger *slog.Logger) {
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte("[]")); err != nil {
				logger.Error("failed to write fallback JSON", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			return
		}
		http.ServeFile(w, r, "static/html/index.html")
	})
}

func StartServer(r *mux.Router) {
	fmt.Println("\n\033[32m", "The server is running on http://localhost:8082", "\033[0m")
	if err := http.ListenAndServe(":8082", r); err != nil {
		log.Fatal("Server failed:", err)
	}
}
