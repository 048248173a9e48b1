// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decisionrooms/server/cliparse"
	"github.com/decisionrooms/server/middleware"
	"github.com/decisionrooms/server/models"
)

// commentPageSize caps the initial top-level comment load.
const commentPageSize = 100

const guestAuthorName = "Anonymous Guest"

type CommentHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCommentHandler(db *sql.DB, cfg cliparse.Config) *CommentHandler {
	return &CommentHandler{db: db, cfg: cfg}
}

// ListComments handles GET /api/rooms/{slug}/comments
// Top-level comments come back newest first, each with its replies
// oldest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
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

	if !room.AllowDiscussion {
		middleware.ErrorResponse(w, http.StatusForbidden, "Discussion not allowed")
		return
	}

	topLevel, err := queryComments(h.db, `
		SELECT c.id, c.content, c.parent_id, c.created_at, u.name
		FROM comment c
		LEFT JOIN app_user u ON u.id = c.user_id
		WHERE c.room_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC
		LIMIT `+strconv.Itoa(commentPageSize), room.ID)

	if err != nil {
		slog.Error("failed to query comments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	replies, err := queryComments(h.db, `
		SELECT c.id, c.content, c.parent_id, c.created_at, u.name
		FROM comment c
		LEFT JOIN app_user u ON u.id = c.user_id
		WHERE c.room_id = $1 AND c.parent_id IS NOT NULL
		ORDER BY c.created_at
	`, room.ID)

	if err != nil {
		slog.Error("failed to query replies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	byParent := map[string][]models.CommentView{}
	for _, reply := range replies {
		byParent[*reply.ParentID] = append(byParent[*reply.ParentID], reply)
	}
	for i := range topLevel {
		topLevel[i].Replies = byParent[topLevel[i].ID]
	}

	middleware.JSONResponse(w, http.StatusOK, models.CommentsResponse{Comments: topLevel})
}

// PostComment handles POST /api/rooms/{slug}/comments
func (h *CommentHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	roomSlug := r.PathValue("slug")
	if roomSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.PostCommentRequest
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

	if !room.AllowDiscussion {
		middleware.ErrorResponse(w, http.StatusForbidden, "Discussion not allowed")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Comment content required")
		return
	}

	// Replies attach to a top-level comment in the same room only
	if req.ParentID != nil {
		var parentParent sql.NullString
		err = h.db.QueryRow(`
			SELECT parent_id FROM comment WHERE id = $1 AND room_id = $2
		`, *req.ParentID, room.ID).Scan(&parentParent)

		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid parent comment")
			return
		}
		if err != nil {
			slog.Error("failed to query parent comment", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if parentParent.Valid {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Replies cannot be nested further")
			return
		}
	}

	identity, err := ResolveVoter(h.db, r, req.GuestFingerprint)
	if err == errFingerprintRequired {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Guest fingerprint required")
		return
	}
	if err != nil {
		slog.Error("failed to resolve identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post comment")
		return
	}

	var commentUserID, commentGuestID sql.NullString
	author := guestAuthorName

	switch identity.Kind {
	case models.IdentityUser:
		var name string
		err = h.db.QueryRow(`
			SELECT name FROM app_user WHERE id = $1
		`, identity.UserID).Scan(&name)
		if err != nil {
			slog.Error("failed to query author", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		author = name
		commentUserID = nullable(identity.UserID)

	case models.IdentityGuest:
		// Guests comment freely; no IP gate here, unlike voting
		guestID, err := GetOrCreateGuest(h.db, identity)
		if err != nil {
			slog.Error("failed to upsert guest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post comment")
			return
		}
		commentGuestID = nullable(guestID)

	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Guest fingerprint required")
		return
	}

	commentID := uuid.NewString()
	now := time.Now()
	var parentID sql.NullString
	if req.ParentID != nil {
		parentID = nullable(*req.ParentID)
	}

	_, err = h.db.Exec(`
		INSERT INTO comment (id, room_id, user_id, guest_id, parent_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, commentID, room.ID, commentUserID, commentGuestID, parentID, content, now)

	if err != nil {
		slog.Error("failed to insert comment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post comment")
		return
	}

	slog.Info("comment posted", "room_id", room.ID, "comment_id", commentID, "reply", req.ParentID != nil)

	middleware.JSONResponse(w, http.StatusCreated, models.PostCommentResponse{
		Comment: models.CommentView{
			ID:        commentID,
			Content:   content,
			Author:    author,
			ParentID:  req.ParentID,
			CreatedAt: now,
		},
	})
}

func queryComments(db *sql.DB, query, roomID string) ([]models.CommentView, error) {
	rows, err := db.Query(query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.CommentView{}
	for rows.Next() {
		var c models.CommentView
		var parentID, userName sql.NullString
		if err := rows.Scan(&c.ID, &c.Content, &parentID, &c.CreatedAt, &userName); err != nil {
			return nil, err
		}
		if parentID.Valid {
			p := parentID.String
			c.ParentID = &p
		}
		if userName.Valid {
			c.Author = userName.String
		} else {
			c.Author = guestAuthorName
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
