// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Decision Rooms API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Accounts:

	POST /api/signup - Create an account
	POST /api/signin - Exchange credentials for a session token

Rooms (creation and dashboard require X-Session-Token):

	POST /api/rooms/create - Create a decision room
	GET  /api/rooms/{slug} - Room detail for any viewer
	GET  /api/me/rooms     - The caller's rooms

Voting and results (public, guests use guestFingerprint):

	POST /api/rooms/{slug}/vote    - Cast a vote
	GET  /api/rooms/{slug}/results - Tallies, gated by room settings

Discussion:

	GET  /api/rooms/{slug}/comments - Threaded comments
	POST /api/rooms/{slug}/comments - Post a comment or reply

# Handler Initialization

The router creates handler instances with dependency injection:

	accountHandler := handlers.NewAccountHandler(db, cfg)
	roomHandler := handlers.NewRoomHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	commentHandler := handlers.NewCommentHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
