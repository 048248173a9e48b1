// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The DDL is
// restricted to the dialect both backends (Postgres and SQLite)
// accept; all timestamps are written by the application.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a uniqueness-constraint
// failure from either backend. The constraints are the authoritative
// guard against duplicate votes; handlers translate this to Conflict.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite reports SQLITE_CONSTRAINT_UNIQUE in the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const schema = `
-- Registered users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Opaque bearer sessions
CREATE TABLE IF NOT EXISTS session (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_user_id ON session(user_id);

-- Decision rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    voting_deadline TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL,
    allow_guest_voting BOOLEAN NOT NULL,
    allow_discussion BOOLEAN NOT NULL,
    allow_vote_justification BOOLEAN NOT NULL,
    show_live_results BOOLEAN NOT NULL,
    creator_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_room_slug ON room(slug);
CREATE INDEX IF NOT EXISTS idx_room_creator_id ON room(creator_id);

-- Voting options, ordered 1..N within a room
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    option_order INTEGER NOT NULL,
    UNIQUE (room_id, option_order)
);

CREATE INDEX IF NOT EXISTS idx_option_room_id ON option(room_id);

-- Guest identities keyed by client fingerprint
CREATE TABLE IF NOT EXISTS guest (
    id TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL UNIQUE,
    ip_address TEXT NOT NULL,
    user_agent TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_guest_ip ON guest(ip_address);

-- Votes: one per (room, user) and one per (room, guest). NULLs are
-- distinct under UNIQUE in both backends, so each constraint binds
-- only its own identity column.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    user_id TEXT REFERENCES app_user(id) ON DELETE CASCADE,
    guest_id TEXT REFERENCES guest(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (room_id, user_id),
    UNIQUE (room_id, guest_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_room_id ON vote(room_id);
CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id);

-- Optional free-text rationale, keyed like the vote itself
CREATE TABLE IF NOT EXISTS vote_justification (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    user_id TEXT REFERENCES app_user(id) ON DELETE CASCADE,
    guest_id TEXT REFERENCES guest(id) ON DELETE CASCADE,
    justification TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (room_id, user_id),
    UNIQUE (room_id, guest_id)
);

CREATE INDEX IF NOT EXISTS idx_justification_option_id ON vote_justification(option_id);

-- Discussion: top-level comments and single-level replies
CREATE TABLE IF NOT EXISTS comment (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    user_id TEXT REFERENCES app_user(id) ON DELETE CASCADE,
    guest_id TEXT REFERENCES guest(id) ON DELETE CASCADE,
    parent_id TEXT REFERENCES comment(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comment_room_id ON comment(room_id);
CREATE INDEX IF NOT EXISTS idx_comment_parent_id ON comment(parent_id);
`
