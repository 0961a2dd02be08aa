// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package account exposes the authenticated user's own profile: reading it,
partially updating it, and listing active sessions.

It deliberately defines narrow repository interfaces that the concrete
Postgres stores in [internal/auth] already satisfy, so no dedicated storage
implementation is needed here.
*/
package account

import (
	"context"

	"github.com/plumeapp/plume/internal/auth"
)

// ProfileRepository is the account view over the user store.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
	Update(ctx context.Context, user *auth.User) error
}

// SessionRepository is the account view over the session store.
type SessionRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*auth.Session, error)
	RevokeAll(ctx context.Context, userID string) error
}
