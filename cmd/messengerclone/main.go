package main

import (
	"messengerclone/internal/config"
	"messengerclone/internal/logger"
	"messengerclone/internal/mongo"
	"messengerclone/internal/mysql"
	"messengerclone/internal/routing"
	"messengerclone/pkg/middleware"
	"messengerclone/pkg/session"

	"github.com/gorilla/mux"
)

func main() {
	config.Load() // load env var from .env

	db := mysql.LoadDB()
	defer db.Close()

	mongoDB := mongo.LoadDB()

	logger := logger.Load()

	sessions := session.NewRegistry()

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Panic)
	api.Use(middleware.Auth(sessions))

	gateway := routing.InitRoutes(api, db, mongoDB, sessions, logger)
	r.HandleFunc("/ws", gateway.HandleWS)

	routing.ServeStaticFiles(r)
	routing.ServeFallback(r, logger)
	routing.StartServer(r) // start sever on localhost:8082
}
