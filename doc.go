// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Decision Rooms API server.

Decision Rooms is a lightweight group decision service: a signed-in user
creates a room with 2-5 options and a voting deadline, shares the room
URL, and participants — registered users or anonymous guests — cast
exactly one vote each before the deadline.

# Starting the Server

The server requires a database URL via environment variable or CLI flag:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 4000 -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): server port (default: 4000)
  - DATABASE_TYPE (-t): "postgres" (default) or "sqlite"
  - BASE_URL (-b): public base URL used for shareable room links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, rooms, voting, results, comments)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Password hashing, session tokens, room slugs
  - db: Schema creation and constraint helpers
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
