// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decisionrooms/server/middleware"
	"github.com/decisionrooms/server/models"
)

// SessionTokenHeader carries the opaque bearer token issued at sign-in.
const SessionTokenHeader = "X-Session-Token"

var errFingerprintRequired = errors.New("guest fingerprint required")

// CurrentUserID resolves the session token header to a user ID.
// Returns false for missing, unknown, or expired tokens.
func CurrentUserID(db *sql.DB, r *http.Request) (string, bool) {
	token := r.Header.Get(SessionTokenHeader)
	if token == "" {
		return "", false
	}

	var userID string
	var expiresAt time.Time
	err := db.QueryRow(`
		SELECT user_id, expires_at FROM session WHERE token = $1
	`, token).Scan(&userID, &expiresAt)

	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		return "", false
	}

	if !time.Now().Before(expiresAt) {
		return "", false
	}

	return userID, true
}

// ResolveVoter produces the voter identity for a mutation request: a
// valid session wins; otherwise the client must supply a non-empty
// fingerprint, which is an error rather than a silent default.
func ResolveVoter(db *sql.DB, r *http.Request, fingerprint string) (models.VoterIdentity, error) {
	if userID, ok := CurrentUserID(db, r); ok {
		return models.AuthenticatedIdentity(userID), nil
	}

	if strings.TrimSpace(fingerprint) == "" {
		return models.VoterIdentity{}, errFingerprintRequired
	}

	return models.GuestIdentity(fingerprint, middleware.GetClientIP(r), r.UserAgent()), nil
}

// GetOrCreateGuest upserts the guest record keyed by fingerprint and
// returns its ID. Concurrent first-time upserts converge on one row;
// the first writer's IP and user agent win.
func GetOrCreateGuest(db *sql.DB, identity models.VoterIdentity) (string, error) {
	_, err := db.Exec(`
		INSERT INTO guest (id, fingerprint, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fingerprint) DO NOTHING
	`, uuid.NewString(), identity.Fingerprint, identity.IP, identity.UserAgent, time.Now())

	if err != nil {
		return "", err
	}

	var guestID string
	err = db.QueryRow(`
		SELECT id FROM guest WHERE fingerprint = $1
	`, identity.Fingerprint).Scan(&guestID)

	if err != nil {
		return "", err
	}

	return guestID, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
