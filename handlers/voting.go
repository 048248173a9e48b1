// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decisionrooms/server/cliparse"
	"github.com/decisionrooms/server/db"
	"github.com/decisionrooms/server/middleware"
	"github.com/decisionrooms/server/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// CastVote handles POST /api/rooms/{slug}/vote
//
// The already-voted checks below are fast paths only; the UNIQUE
// constraints on the vote table are what actually guarantee at most
// one vote per identity. A race-lost insert surfaces as Conflict, the
// same answer the loser would have gotten from the fast path.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	roomSlug := r.PathValue("slug")
	if roomSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	room, err := loadRoomBySlug(h.db, roomSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if room.VotingClosed(time.Now()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voting has ended")
		return
	}

	var optionOK bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM option WHERE id = $1 AND room_id = $2)
	`, req.OptionID, room.ID).Scan(&optionOK)
	if err != nil {
		slog.Error("failed to verify option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !optionOK {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid option")
		return
	}

	identity, err := ResolveVoter(h.db, r, req.GuestFingerprint)
	if err == errFingerprintRequired {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Guest fingerprint required")
		return
	}
	if err != nil {
		slog.Error("failed to resolve voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	var voteUserID, voteGuestID sql.NullString

	switch identity.Kind {
	case models.IdentityUser:
		var voted bool
		err = h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM vote WHERE room_id = $1 AND user_id = $2)
		`, room.ID, identity.UserID).Scan(&voted)
		if err != nil {
			slog.Error("failed to check existing vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if voted {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
			return
		}
		voteUserID = nullable(identity.UserID)

	case models.IdentityGuest:
		if !room.AllowGuestVoting {
			middleware.ErrorResponse(w, http.StatusForbidden, "Guest voting not allowed")
			return
		}

		// IP-level dedupe: any guest record sharing this source address
		// that already voted here blocks the request, regardless of
		// fingerprint.
		var ipVoted bool
		err = h.db.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM vote v
				JOIN guest g ON g.id = v.guest_id
				WHERE v.room_id = $1 AND g.ip_address = $2
			)
		`, room.ID, identity.IP).Scan(&ipVoted)
		if err != nil {
			slog.Error("failed to check IP votes", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if ipVoted {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
			return
		}

		guestID, err := GetOrCreateGuest(h.db, identity)
		if err != nil {
			slog.Error("failed to upsert guest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
			return
		}

		var voted bool
		err = h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM vote WHERE room_id = $1 AND guest_id = $2)
		`, room.ID, guestID).Scan(&voted)
		if err != nil {
			slog.Error("failed to check existing guest vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if voted {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
			return
		}
		voteGuestID = nullable(guestID)

	default:
		// ResolveVoter never yields the anonymous variant for mutations
		middleware.ErrorResponse(w, http.StatusBadRequest, "Guest fingerprint required")
		return
	}

	// Vote and justification commit together
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	voteID := uuid.NewString()
	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO vote (id, room_id, option_id, user_id, guest_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voteID, room.ID, req.OptionID, voteUserID, voteGuestID, now)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
			return
		}
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	justification := strings.TrimSpace(req.Justification)
	if justification != "" && room.AllowVoteJustification {
		_, err = tx.Exec(`
			INSERT INTO vote_justification (id, room_id, option_id, user_id, guest_id, justification, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), room.ID, req.OptionID, voteUserID, voteGuestID, justification, now)

		if err != nil {
			slog.Error("failed to insert justification", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
			return
		}
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	slog.Info("vote cast", "room_id", room.ID, "vote_id", voteID, "guest", identity.Kind == models.IdentityGuest)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		VoteID: voteID,
	})
}
