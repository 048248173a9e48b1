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

	"github.com/decisionrooms/server/auth"
	"github.com/decisionrooms/server/cliparse"
	"github.com/decisionrooms/server/db"
	"github.com/decisionrooms/server/middleware"
	"github.com/decisionrooms/server/models"
)

type RoomHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRoomHandler(db *sql.DB, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{db: db, cfg: cfg}
}

// CreateRoom handles POST /api/rooms/create
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(h.db, r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "You must be signed in to create a room")
		return
	}

	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if req.Title == "" || len(req.Title) > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be 1-100 characters")
		return
	}
	if req.Description == "" || len(req.Description) > 500 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "description must be 1-500 characters")
		return
	}
	if len(req.Options) < models.MinOptions || len(req.Options) > models.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Must provide between 2 and 5 options")
		return
	}
	for _, opt := range req.Options {
		title := strings.TrimSpace(opt.Title)
		if title == "" || len(title) > 100 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option titles must be 1-100 characters")
			return
		}
	}
	if !req.VotingDeadline.After(time.Now()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voting deadline must be in the future")
		return
	}

	// Settings omitted from the request default to enabled
	settings := models.RoomSettings{
		AllowGuestVoting:       true,
		AllowDiscussion:        true,
		AllowVoteJustification: true,
		ShowLiveResults:        true,
	}
	if req.Settings != nil {
		settings = *req.Settings
	}

	// Find a free slug, appending progressively longer random suffixes
	// on collision. The UNIQUE constraint on room.slug is the final
	// guard if a concurrent creator takes the candidate first.
	var roomSlug string
	for attempt := 0; attempt < auth.SlugAttempts; attempt++ {
		candidate, err := auth.RoomSlug(req.Title, attempt)
		if err != nil {
			slog.Error("failed to generate slug", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
			return
		}

		var exists bool
		err = h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM room WHERE slug = $1)
		`, candidate).Scan(&exists)
		if err != nil {
			slog.Error("failed to check slug", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if !exists {
			roomSlug = candidate
			break
		}
	}

	if roomSlug == "" {
		slog.Error("exhausted slug attempts", "title", req.Title)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	// Room and options commit together or not at all
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	roomID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO room (id, slug, title, description, voting_deadline, is_active,
			allow_guest_voting, allow_discussion, allow_vote_justification,
			show_live_results, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, roomID, roomSlug, req.Title, req.Description, req.VotingDeadline, true,
		settings.AllowGuestVoting, settings.AllowDiscussion, settings.AllowVoteJustification,
		settings.ShowLiveResults, userID, time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Room slug collision, please retry")
			return
		}
		slog.Error("failed to insert room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	for i, opt := range req.Options {
		_, err = tx.Exec(`
			INSERT INTO option (id, room_id, title, option_order)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), roomID, strings.TrimSpace(opt.Title), i+1)

		if err != nil {
			slog.Error("failed to insert option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	slog.Info("room created", "room_id", roomID, "slug", roomSlug, "creator", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		Room: models.CreatedRoom{
			ID:             roomID,
			Slug:           roomSlug,
			Title:          req.Title,
			Description:    req.Description,
			VotingDeadline: req.VotingDeadline,
			Settings:       settings,
			ShareableURL:   h.cfg.BaseURL + "/room/" + roomSlug,
		},
	})
}

// GetRoom handles GET /api/rooms/{slug}
// Returns the room, its ordered options with vote counts, and the
// viewer's own vote state.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
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

	options, totalVotes, err := loadOptionCounts(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var creatorName string
	err = h.db.QueryRow(`
		SELECT name FROM app_user WHERE id = $1
	`, room.CreatorID).Scan(&creatorName)
	if err != nil {
		slog.Error("failed to query creator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var commentCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM comment WHERE room_id = $1
	`, room.ID).Scan(&commentCount)
	if err != nil {
		slog.Error("failed to count comments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hasVoted := false
	var userVote *string
	isCreator := false

	if userID, ok := CurrentUserID(h.db, r); ok {
		isCreator = userID == room.CreatorID

		var optionID string
		err = h.db.QueryRow(`
			SELECT option_id FROM vote WHERE room_id = $1 AND user_id = $2
		`, room.ID, userID).Scan(&optionID)

		if err == nil {
			hasVoted = true
			userVote = &optionID
		} else if err != sql.ErrNoRows {
			slog.Error("failed to query viewer vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomResponse{
		ID:             room.ID,
		Slug:           room.Slug,
		Title:          room.Title,
		Description:    room.Description,
		VotingDeadline: room.VotingDeadline,
		IsActive:       room.IsActive,
		Settings:       room.Settings(),
		Creator:        models.RoomCreator{ID: room.CreatorID, Name: creatorName},
		Options:        options,
		TotalVotes:     totalVotes,
		CommentCount:   commentCount,
		HasVoted:       hasVoted,
		UserVote:       userVote,
		IsCreator:      isCreator,
	})
}

// MyRooms handles GET /api/me/rooms
// Returns rooms created by the authenticated user, newest first.
func (h *RoomHandler) MyRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(h.db, r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	rows, err := h.db.Query(`
		SELECT r.id, r.slug, r.title, r.voting_deadline, r.is_active, r.created_at,
		       (SELECT COUNT(*) FROM vote v WHERE v.room_id = r.id)
		FROM room r
		WHERE r.creator_id = $1
		ORDER BY r.created_at DESC
	`, userID)

	if err != nil {
		slog.Error("failed to query rooms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	rooms := []models.RoomListItem{}
	for rows.Next() {
		var item models.RoomListItem
		if err := rows.Scan(&item.ID, &item.Slug, &item.Title, &item.VotingDeadline,
			&item.IsActive, &item.CreatedAt, &item.TotalVotes); err != nil {
			slog.Error("failed to scan room", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		rooms = append(rooms, item)
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyRoomsResponse{Rooms: rooms})
}

// loadRoomBySlug fetches a room row. Callers check sql.ErrNoRows.
func loadRoomBySlug(db *sql.DB, roomSlug string) (*models.Room, error) {
	var room models.Room
	err := db.QueryRow(`
		SELECT id, slug, title, description, voting_deadline, is_active,
		       allow_guest_voting, allow_discussion, allow_vote_justification,
		       show_live_results, creator_id, created_at
		FROM room
		WHERE slug = $1
	`, roomSlug).Scan(
		&room.ID, &room.Slug, &room.Title, &room.Description, &room.VotingDeadline,
		&room.IsActive, &room.AllowGuestVoting, &room.AllowDiscussion,
		&room.AllowVoteJustification, &room.ShowLiveResults, &room.CreatorID,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// loadOptionCounts returns a room's options in display order with their
// vote counts, plus the total across all options.
func loadOptionCounts(db *sql.DB, roomID string) ([]models.OptionWithVotes, int, error) {
	rows, err := db.Query(`
		SELECT o.id, o.title, o.option_order, COUNT(v.id)
		FROM option o
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE o.room_id = $1
		GROUP BY o.id, o.title, o.option_order
		ORDER BY o.option_order
	`, roomID)

	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	options := []models.OptionWithVotes{}
	total := 0
	for rows.Next() {
		var opt models.OptionWithVotes
		if err := rows.Scan(&opt.ID, &opt.Title, &opt.Order, &opt.Votes); err != nil {
			return nil, 0, err
		}
		total += opt.Votes
		options = append(options, opt)
	}

	return options, total, rows.Err()
}
