// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Decision Rooms API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: sign up and sign in
  - RoomHandler: room creation, room detail, creator dashboard
  - VoteHandler: vote casting with duplicate prevention
  - ResultsHandler: tallies and creator-only justifications
  - CommentHandler: threaded discussion

Handlers are created via constructor functions that accept *sql.DB and Config:

	roomHandler := handlers.NewRoomHandler(db, cfg)

# Voter Identity

ResolveVoter classifies the caller of a write endpoint:

  - a valid X-Session-Token makes them a registered user
  - otherwise a guestFingerprint in the body makes them a guest
  - neither is an error

Guests are upserted by fingerprint; the first write wins for IP and
user agent. Guest votes are additionally deduplicated by IP within a
room, so a new incognito window does not earn a second vote.

# Vote Flow

	POST /api/rooms/{slug}/vote

The handler checks, in order: room exists, voting still open, option
belongs to the room, identity resolves, identity has not voted. The
vote insert runs in a transaction with the optional justification; a
unique violation at commit time is reported as a conflict, so racing
duplicates get the same answer as sequential ones.

# Results Gate

Results are visible when any of these holds: the room shows live
results, the deadline has passed (or the room was deactivated), or the
viewer is the creator. Justification texts are included for the
creator only.

# Discussion

Comments are one level deep: replies to replies are rejected. Listing
returns top-level comments newest first, each with its replies oldest
first.
*/
package handlers
