// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plumeapp/plume/internal/auth"
)

// Service orchestrates business logic for user accounts.
type Service struct {
	profileRepository ProfileRepository
	sessionRepository SessionRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(profileRepo ProfileRepository, sessionRepo SessionRepository, logger *slog.Logger) *Service {
	return &Service{
		profileRepository: profileRepo,
		sessionRepository: sessionRepo,
		logger:            logger,
	}
}

// GetProfile retrieves the full private identity of a user.
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.profileRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overlays provided fields, and
synchronizes the change to persistent storage.
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.profileRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := service.profileRepository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// ListSessions returns the user's refresh sessions, most recent first.
func (service *Service) ListSessions(ctx context.Context, userID string) ([]*auth.Session, error) {
	return service.sessionRepository.ListByUser(ctx, userID)
}

// RevokeAllSessions force-logs-out the user from every device.
func (service *Service) RevokeAllSessions(ctx context.Context, userID string) error {
	if err := service.sessionRepository.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("account_service_revoke_sessions_failed: %w", err)
	}

	service.logger.Info("user_sessions_revoked", slog.String("user_id", userID))
	return nil
}
