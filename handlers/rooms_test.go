// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/decisionrooms/server/models"
	"github.com/decisionrooms/server/testutil"
)

func TestCreateRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoomHandler(db, cfg)

	_, token := testutil.CreateTestUser(t, db, "Alice", "alice@example.com")

	req := testutil.MakeRequest("POST", "/api/rooms/create", models.CreateRoomRequest{
		Title:          "Team Lunch",
		Description:    "Where should we eat on Friday?",
		Options:        []models.OptionInput{{Title: "Pizza"}, {Title: "Tacos"}, {Title: "Sushi"}},
		VotingDeadline: time.Now().Add(time.Hour),
	}, map[string]string{SessionTokenHeader: token})
	w := httptest.NewRecorder()

	handler.CreateRoom(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Room.Slug == "" {
		t.Fatal("Expected a non-empty slug")
	}
	if !strings.HasPrefix(resp.Room.Slug, "team-lunch") {
		t.Errorf("Expected slug derived from the title, got %q", resp.Room.Slug)
	}
	if resp.Room.ShareableURL != cfg.BaseURL+"/room/"+resp.Room.Slug {
		t.Errorf("Unexpected shareable URL: %q", resp.Room.ShareableURL)
	}

	// Settings were omitted, so everything defaults to enabled
	if !resp.Room.Settings.AllowGuestVoting || !resp.Room.Settings.ShowLiveResults {
		t.Errorf("Expected default-enabled settings, got %+v", resp.Room.Settings)
	}

	// Room row exists and is active
	var isActive bool
	err := db.QueryRow(`SELECT is_active FROM room WHERE id = $1`, resp.Room.ID).Scan(&isActive)
	if err != nil {
		t.Fatalf("Failed to query created room: %v", err)
	}
	if !isActive {
		t.Error("Expected the new room to be active")
	}

	// Options persisted with order 1..N
	rows, err := db.Query(`SELECT title, option_order FROM option WHERE room_id = $1 ORDER BY option_order`, resp.Room.ID)
	if err != nil {
		t.Fatalf("Failed to query options: %v", err)
	}
	defer rows.Close()

	wantTitles := []string{"Pizza", "Tacos", "Sushi"}
	i := 0
	for rows.Next() {
		var title string
		var order int
		if err := rows.Scan(&title, &order); err != nil {
			t.Fatalf("Failed to scan option: %v", err)
		}
		if i >= len(wantTitles) {
			t.Fatal("More options than expected")
		}
		if title != wantTitles[i] || order != i+1 {
			t.Errorf("Expected option %d to be (%q, %d), got (%q, %d)", i, wantTitles[i], i+1, title, order)
		}
		i++
	}
	if i != len(wantTitles) {
		t.Errorf("Expected %d options, got %d", len(wantTitles), i)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoomHandler(db, cfg)

	_, token := testutil.CreateTestUser(t, db, "Alice", "alice@example.com")
	authed := map[string]string{SessionTokenHeader: token}

	valid := func() models.CreateRoomRequest {
		return models.CreateRoomRequest{
			Title:          "Team Lunch",
			Description:    "Where to?",
			Options:        []models.OptionInput{{Title: "A"}, {Title: "B"}},
			VotingDeadline: time.Now().Add(time.Hour),
		}
	}

	tests := []struct {
		name           string
		mutate         func(*models.CreateRoomRequest)
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "unauthenticated",
			mutate:         func(r *models.CreateRoomRequest) {},
			headers:        nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing title",
			mutate:         func(r *models.CreateRoomRequest) { r.Title = "  " },
			headers:        authed,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing description",
			mutate:         func(r *models.CreateRoomRequest) { r.Description = "" },
			headers:        authed,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "too few options",
			mutate:         func(r *models.CreateRoomRequest) { r.Options = r.Options[:1] },
			headers:        authed,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "too many options",
			mutate: func(r *models.CreateRoomRequest) {
				r.Options = []models.OptionInput{
					{Title: "A"}, {Title: "B"}, {Title: "C"},
					{Title: "D"}, {Title: "E"}, {Title: "F"},
				}
			},
			headers:        authed,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank option title",
			mutate:         func(r *models.CreateRoomRequest) { r.Options[1].Title = "   " },
			headers:        authed,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "deadline in the past",
			mutate:         func(r *models.CreateRoomRequest) { r.VotingDeadline = time.Now().Add(-time.Minute) },
			headers:        authed,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqBody := valid()
			tt.mutate(&reqBody)

			req := testutil.MakeRequest("POST", "/api/rooms/create", reqBody, tt.headers)
			w := httptest.NewRecorder()

			handler.CreateRoom(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestCreateRoomDuplicateTitles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoomHandler(db, cfg)

	_, token := testutil.CreateTestUser(t, db, "Alice", "alice@example.com")

	create := func() string {
		req := testutil.MakeRequest("POST", "/api/rooms/create", models.CreateRoomRequest{
			Title:          "Team Lunch",
			Description:    "Where to?",
			Options:        []models.OptionInput{{Title: "A"}, {Title: "B"}},
			VotingDeadline: time.Now().Add(time.Hour),
		}, map[string]string{SessionTokenHeader: token})
		w := httptest.NewRecorder()

		handler.CreateRoom(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CreateRoomResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Room.Slug
	}

	first := create()
	second := create()

	if first == second {
		t.Errorf("Expected distinct slugs for identical titles, got %q twice", first)
	}
}

func TestGetRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoomHandler(db, cfg)

	creatorID, creatorToken := testutil.CreateTestUser(t, db, "Alice", "alice@example.com")
	voterID, voterToken := testutil.CreateTestUser(t, db, "Bob", "bob@example.com")

	roomID, slug := testutil.CreateTestRoom(t, db, creatorID, time.Now().Add(time.Hour), true, testutil.AllSettings())
	pizza := testutil.AddTestOption(t, db, roomID, "Pizza", 1)
	testutil.AddTestOption(t, db, roomID, "Tacos", 2)
	testutil.CastUserVote(t, db, roomID, pizza, voterID)

	get := func(headers map[string]string) models.RoomResponse {
		req := testutil.MakeRequest("GET", "/api/rooms/"+slug, nil, headers)
		req.SetPathValue("slug", slug)
		w := httptest.NewRecorder()

		handler.GetRoom(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.RoomResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// Anonymous viewer sees options and counts, no vote state
	resp := get(nil)
	if len(resp.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(resp.Options))
	}
	if resp.Options[0].Title != "Pizza" || resp.Options[0].Votes != 1 {
		t.Errorf("Expected Pizza with 1 vote first, got %+v", resp.Options[0])
	}
	if resp.Options[1].Votes != 0 {
		t.Errorf("Expected Tacos with 0 votes, got %+v", resp.Options[1])
	}
	if resp.TotalVotes != 1 {
		t.Errorf("Expected 1 total vote, got %d", resp.TotalVotes)
	}
	if resp.HasVoted || resp.IsCreator {
		t.Error("Anonymous viewer must not have vote state or creator flag")
	}
	if resp.Creator.Name != "Alice" {
		t.Errorf("Expected creator Alice, got %q", resp.Creator.Name)
	}

	// The voter sees their own vote
	resp = get(map[string]string{SessionTokenHeader: voterToken})
	if !resp.HasVoted {
		t.Error("Expected hasVoted for the voter")
	}
	if resp.UserVote == nil || *resp.UserVote != pizza {
		t.Errorf("Expected userVote %q, got %v", pizza, resp.UserVote)
	}

	// The creator is flagged as such
	resp = get(map[string]string{SessionTokenHeader: creatorToken})
	if !resp.IsCreator {
		t.Error("Expected isCreator for the creator")
	}
}

func TestGetRoomNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewRoomHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/api/rooms/nope", nil, nil)
	req.SetPathValue("slug", "nope")
	w := httptest.NewRecorder()

	handler.GetRoom(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestMyRooms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoomHandler(db, cfg)

	creatorID, token := testutil.CreateTestUser(t, db, "Alice", "alice@example.com")
	otherID, _ := testutil.CreateTestUser(t, db, "Bob", "bob@example.com")

	testutil.CreateTestRoom(t, db, creatorID, time.Now().Add(time.Hour), true, testutil.AllSettings())
	testutil.CreateTestRoom(t, db, creatorID, time.Now().Add(2*time.Hour), true, testutil.AllSettings())
	testutil.CreateTestRoom(t, db, otherID, time.Now().Add(time.Hour), true, testutil.AllSettings())

	req := testutil.MakeRequest("GET", "/api/me/rooms", nil, map[string]string{SessionTokenHeader: token})
	w := httptest.NewRecorder()

	handler.MyRooms(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MyRoomsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Rooms) != 2 {
		t.Errorf("Expected 2 rooms for the creator, got %d", len(resp.Rooms))
	}
}

func TestMyRoomsUnauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewRoomHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/api/me/rooms", nil, nil)
	w := httptest.NewRecorder()

	handler.MyRooms(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
