// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignUpRequest: name, email, password
  - SignInRequest: email, password
  - CreateRoomRequest: title, description, options, votingDeadline, settings
  - CastVoteRequest: optionId, justification, guestFingerprint
  - PostCommentRequest: content, parentId, guestFingerprint

# Response Types

Types for JSON responses:

  - SignUpResponse: userId
  - SignInResponse: token, expiresAt
  - CreateRoomResponse: room with its shareableUrl
  - RoomResponse: room detail with options, counts, and viewer state
  - CastVoteResponse: voteId
  - ResultsResponse: per-option tallies, creator-only justifications
  - CommentsResponse: threaded comment views
  - MyRoomsResponse: the creator's rooms
  - ErrorResponse: error

# Voter Identity

VoterIdentity is a tagged union over the three caller kinds:

	switch identity.Kind {
	case models.IdentityUser:
	case models.IdentityGuest:
	case models.IdentityAnonymous:
	}

Constructed via AuthenticatedIdentity and GuestIdentity.

# Domain Types

Room carries the settings booleans and the voting window. Its
VotingClosed method is the single definition of "voting has ended":
past deadline or deactivated.

# Constants

Option count bounds:

	MinOptions = 2
	MaxOptions = 5
*/
package models
