// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and constraint helpers.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL is portable across PostgreSQL and SQLite: timestamps
are written by the application, never by the database.

# Tables

The schema includes:

  - app_user: registered accounts
  - session: opaque session tokens with expiry
  - room: decision room metadata, deadline, and settings
  - option: the 2-5 choices per room
  - guest: anonymous voter identities keyed by browser fingerprint
  - vote: one vote per identity per room
  - vote_justification: optional free-text reasons, creator-visible
  - comment: discussion threads (one level of nesting)

# Vote Uniqueness

The vote table carries UNIQUE(room_id, user_id) and
UNIQUE(room_id, guest_id). NULLs are distinct under both backends, so
each constraint binds only its own identity column. These constraints
are the authoritative guard against double voting; handler checks are
fast paths only.

# Constraint Errors

IsUniqueViolation reports whether an error came from a unique
constraint, on either backend:

	if db.IsUniqueViolation(err) {
		// concurrent duplicate - report conflict
	}
*/
package db
