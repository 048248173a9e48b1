// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/decisionrooms/server/cliparse"
	"github.com/decisionrooms/server/handlers"
	"github.com/decisionrooms/server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	roomHandler := handlers.NewRoomHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	commentHandler := handlers.NewCommentHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /api/signup", middleware.WithLogging(accountHandler.SignUp))
	mux.HandleFunc("POST /api/signin", middleware.WithLogging(accountHandler.SignIn))

	// Rooms
	mux.HandleFunc("POST /api/rooms/create", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /api/rooms/{slug}", middleware.WithLogging(roomHandler.GetRoom))
	mux.HandleFunc("GET /api/me/rooms", middleware.WithLogging(roomHandler.MyRooms))

	// Voting and results
	mux.HandleFunc("POST /api/rooms/{slug}/vote", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("GET /api/rooms/{slug}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Discussion
	mux.HandleFunc("GET /api/rooms/{slug}/comments", middleware.WithLogging(commentHandler.ListComments))
	mux.HandleFunc("POST /api/rooms/{slug}/comments", middleware.WithLogging(commentHandler.PostComment))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("decision-rooms API v1"))
	})

	return mux
}
