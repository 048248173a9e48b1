// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens, and room slugs.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

bcrypt caps input at 72 bytes; callers validate length before hashing.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded without padding. They are opaque:
the server stores them with an expiry and looks them up per request via
the X-Session-Token header.

# Room Slugs

Room slugs are derived from the room title:

	slug, err := auth.RoomSlug("Team Lunch", 0)  // "team-lunch"
	slug, err  = auth.RoomSlug("Team Lunch", 1)  // "team-lunch-x7q2"

Attempt 0 is the plain slugified title. On collision, callers retry
with increasing attempt numbers, which append a random lowercase
alphanumeric suffix that grows with each attempt. SlugAttempts bounds
the retries.
*/
package auth
