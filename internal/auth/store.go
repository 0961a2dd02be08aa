// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a brand-new user account.
	Create(ctx context.Context, user *User) error

	// Update persists changes to mutable profile fields.
	Update(ctx context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// MarkVerified flips the account's verified flag.
	MarkVerified(ctx context.Context, userID string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh sessions.
type SessionRepository interface {
	// Create persists an active refresh-token session.
	Create(ctx context.Context, session *Session) error

	// FindByTokenHash returns the non-revoked, non-expired session holding
	// the given token hash.
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// ListByUser returns a user's sessions, most recent first.
	ListByUser(ctx context.Context, userID string) ([]*Session, error)

	// Revoke marks a single session as revoked.
	Revoke(ctx context.Context, sessionID string) error

	// RevokeAll revokes every session of a user.
	RevokeAll(ctx context.Context, userID string) error

	// RevokeOthers revokes every session of a user except the given one.
	RevokeOthers(ctx context.Context, userID, keepSessionID string) error
}

// # Volatile Token Data Access

// VolatileTokenRepository is the contract shared by the Redis-backed
// password-reset and email-verification token stores.
type VolatileTokenRepository interface {
	// Set stores a token → userID mapping with a TTL.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error

	// Get resolves the userID for a token. Absent or expired tokens map to
	// an apperr.NotFound.
	Get(ctx context.Context, token string) (string, error)

	// Delete removes a consumed token.
	Delete(ctx context.Context, token string) error
}
