// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/decisionrooms/server/cliparse"
	"github.com/decisionrooms/server/middleware"
	"github.com/decisionrooms/server/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /api/rooms/{slug}/results
//
// Counts are disclosed when the room shows live results, voting has
// ended, or the requester created the room. Justification text is
// stricter: only the creator ever sees it.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	roomSlug := r.PathValue("slug")
	if roomSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
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

	userID, signedIn := CurrentUserID(h.db, r)
	isCreator := signedIn && userID == room.CreatorID
	votingEnded := room.VotingClosed(time.Now())

	if !room.ShowLiveResults && !votingEnded && !isCreator {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results not available yet")
		return
	}

	options, totalVotes, err := loadOptionCounts(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query option counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	justifications := map[string][]models.Justification{}
	if isCreator {
		justifications, err = loadJustifications(h.db, room.ID)
		if err != nil {
			slog.Error("failed to query justifications", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	results := make([]models.OptionResult, 0, len(options))
	for _, opt := range options {
		entry := models.OptionResult{
			ID:             opt.ID,
			Title:          opt.Title,
			Order:          opt.Order,
			Votes:          opt.Votes,
			Justifications: []models.Justification{},
		}
		if isCreator {
			if js, ok := justifications[opt.ID]; ok {
				entry.Justifications = js
			}
		}
		results = append(results, entry)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Room: models.ResultsRoom{
			ID:             room.ID,
			Title:          room.Title,
			Description:    room.Description,
			VotingDeadline: room.VotingDeadline,
			IsActive:       room.IsActive,
		},
		Results:        results,
		TotalVotes:     totalVotes,
		VotingEnded:    votingEnded,
		CanViewResults: true,
	})
}

// loadJustifications groups a room's justification texts by option.
func loadJustifications(db *sql.DB, roomID string) (map[string][]models.Justification, error) {
	rows, err := db.Query(`
		SELECT option_id, justification, created_at
		FROM vote_justification
		WHERE room_id = $1
		ORDER BY created_at
	`, roomID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOption := map[string][]models.Justification{}
	for rows.Next() {
		var optionID string
		var j models.Justification
		if err := rows.Scan(&optionID, &j.Justification, &j.CreatedAt); err != nil {
			return nil, err
		}
		byOption[optionID] = append(byOption[optionID], j)
	}

	return byOption, rows.Err()
}
