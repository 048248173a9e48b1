// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Option count limits per room, fixed at creation.
const (
	MinOptions = 2
	MaxOptions = 5
)

// IdentityKind discriminates the VoterIdentity union.
type IdentityKind int

const (
	// IdentityAnonymous is a request with no session and no fingerprint.
	IdentityAnonymous IdentityKind = iota
	// IdentityUser is a registered user resolved from a session token.
	IdentityUser
	// IdentityGuest is an unregistered voter identified by a
	// client-supplied fingerprint plus the request's source address.
	IdentityGuest
)

// VoterIdentity is the tagged union consumed by every mutation handler.
// Only the fields for the active Kind are populated.
type VoterIdentity struct {
	Kind        IdentityKind
	UserID      string
	Fingerprint string
	IP          string
	UserAgent   string
}

// AuthenticatedIdentity builds the registered-user variant.
func AuthenticatedIdentity(userID string) VoterIdentity {
	return VoterIdentity{Kind: IdentityUser, UserID: userID}
}

// GuestIdentity builds the guest variant.
func GuestIdentity(fingerprint, ip, userAgent string) VoterIdentity {
	return VoterIdentity{Kind: IdentityGuest, Fingerprint: fingerprint, IP: ip, UserAgent: userAgent}
}

// Request types

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OptionInput struct {
	Title string `json:"title"`
}

// RoomSettings are immutable after room creation; settings omitted from
// the creation request default to true, matching the creation form.
type RoomSettings struct {
	AllowGuestVoting       bool `json:"allowGuestVoting"`
	AllowDiscussion        bool `json:"allowDiscussion"`
	AllowVoteJustification bool `json:"allowVoteJustification"`
	ShowLiveResults        bool `json:"showLiveResults"`
}

type CreateRoomRequest struct {
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Options        []OptionInput `json:"options"`
	VotingDeadline time.Time     `json:"votingDeadline"`
	Settings       *RoomSettings `json:"settings"`
}

type CastVoteRequest struct {
	OptionID         string `json:"optionId"`
	Justification    string `json:"justification,omitempty"`
	GuestFingerprint string `json:"guestFingerprint,omitempty"`
}

type PostCommentRequest struct {
	Content          string  `json:"content"`
	ParentID         *string `json:"parentId,omitempty"`
	GuestFingerprint string  `json:"guestFingerprint,omitempty"`
}

// Response types

type SignUpResponse struct {
	UserID string `json:"userId"`
}

type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CreateRoomResponse struct {
	Room CreatedRoom `json:"room"`
}

type CreatedRoom struct {
	ID             string       `json:"id"`
	Slug           string       `json:"slug"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	VotingDeadline time.Time    `json:"votingDeadline"`
	Settings       RoomSettings `json:"settings"`
	ShareableURL   string       `json:"shareableUrl"`
}

type CastVoteResponse struct {
	VoteID string `json:"voteId"`
}

type RoomResponse struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	VotingDeadline time.Time         `json:"votingDeadline"`
	IsActive       bool              `json:"isActive"`
	Settings       RoomSettings      `json:"settings"`
	Creator        RoomCreator       `json:"creator"`
	Options        []OptionWithVotes `json:"options"`
	TotalVotes     int               `json:"totalVotes"`
	CommentCount   int               `json:"commentCount"`
	HasVoted       bool              `json:"hasVoted"`
	UserVote       *string           `json:"userVote"`
	IsCreator      bool              `json:"isCreator"`
}

type RoomCreator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OptionWithVotes struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Votes int    `json:"votes"`
}

type ResultsResponse struct {
	Room           ResultsRoom    `json:"room"`
	Results        []OptionResult `json:"results"`
	TotalVotes     int            `json:"totalVotes"`
	VotingEnded    bool           `json:"votingEnded"`
	CanViewResults bool           `json:"canViewResults"`
}

type ResultsRoom struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	VotingDeadline time.Time `json:"votingDeadline"`
	IsActive       bool      `json:"isActive"`
}

type OptionResult struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Order          int             `json:"order"`
	Votes          int             `json:"votes"`
	Justifications []Justification `json:"justifications"`
}

// Justification text is disclosed to the room creator only.
type Justification struct {
	Justification string    `json:"justification"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CommentView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    string        `json:"author"`
	ParentID  *string       `json:"parentId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	Replies   []CommentView `json:"replies,omitempty"`
}

type CommentsResponse struct {
	Comments []CommentView `json:"comments"`
}

type PostCommentResponse struct {
	Comment CommentView `json:"comment"`
}

type MyRoomsResponse struct {
	Rooms []RoomListItem `json:"rooms"`
}

type RoomListItem struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	VotingDeadline time.Time `json:"votingDeadline"`
	IsActive       bool      `json:"isActive"`
	TotalVotes     int       `json:"totalVotes"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Domain types

type Room struct {
	ID                     string    `json:"id"`
	Slug                   string    `json:"slug"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	VotingDeadline         time.Time `json:"votingDeadline"`
	IsActive               bool      `json:"isActive"`
	AllowGuestVoting       bool      `json:"allowGuestVoting"`
	AllowDiscussion        bool      `json:"allowDiscussion"`
	AllowVoteJustification bool      `json:"allowVoteJustification"`
	ShowLiveResults        bool      `json:"showLiveResults"`
	CreatorID              string    `json:"creatorId"`
	CreatedAt              time.Time `json:"createdAt"`
}

// VotingClosed reports whether the room no longer accepts votes.
func (r *Room) VotingClosed(now time.Time) bool {
	return !r.IsActive || !now.Before(r.VotingDeadline)
}

// Settings bundles the four creation-time flags.
func (r *Room) Settings() RoomSettings {
	return RoomSettings{
		AllowGuestVoting:       r.AllowGuestVoting,
		AllowDiscussion:        r.AllowDiscussion,
		AllowVoteJustification: r.AllowVoteJustification,
		ShowLiveResults:        r.ShowLiveResults,
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
