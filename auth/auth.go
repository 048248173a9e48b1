// Copyright (c) 2026 Decision Rooms.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

// SlugAttempts bounds the collision-retry loop during room creation.
const SlugAttempts = 5

const suffixChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSessionToken creates a random opaque bearer token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 192 bits of entropy
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// RoomSlug derives a URL slug from a room title. Attempt 0 returns the
// plain slugified title; each subsequent attempt appends a random
// suffix, one character longer per attempt, so retries get less likely
// to collide.
func RoomSlug(title string, attempt int) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "room"
	}
	if attempt == 0 {
		return base, nil
	}
	suffix, err := randSuffix(3 + attempt)
	if err != nil {
		return "", err
	}
	return base + "-" + suffix, nil
}

func randSuffix(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate slug suffix: %w", err)
	}
	for i := range b {
		b[i] = suffixChars[int(b[i])%len(suffixChars)]
	}
	return string(b), nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
