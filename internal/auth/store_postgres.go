// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/database/schema"
	"github.com/plumeapp/plume/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed user store.
func NewUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userColumns is the canonical SELECT column list for hydrating a [User].
func userColumns() string {
	t := schema.UsersAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Username, t.Email, t.PasswordHash, t.DisplayName,
		t.AvatarURL, t.Bio, t.Role, t.IsVerified, t.CreatedAt, t.UpdatedAt)
}

// scanUser hydrates a [User] from a row exposing userColumns.
func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.AvatarURL, &user.Bio, &user.Role,
		&user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.UsersAccount.Table, schema.UsersAccount.ID)

	user, err := scanUser(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_id")
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		userColumns(), schema.UsersAccount.Table, schema.UsersAccount.Email)

	user, err := scanUser(repository.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_email")
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		userColumns(), schema.UsersAccount.Table, schema.UsersAccount.Username)

	user, err := scanUser(repository.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_username")
	}
	return user, nil
}

func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.Table, t.ID, t.Username, t.Email, t.PasswordHash, t.DisplayName, t.AvatarURL, t.Bio, t.Role, t.IsVerified)

	_, err := repository.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.AvatarURL, user.Bio, user.Role, user.IsVerified,
	)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}
	return nil
}

func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4
	`, t.Table, t.DisplayName, t.AvatarURL, t.Bio, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query, user.DisplayName, user.AvatarURL, user.Bio, user.ID)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		t.Table, t.PasswordHash, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (repository *PostgresUserRepository) MarkVerified(ctx context.Context, userID string) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		t.Table, t.IsVerified, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query, userID)
	if err != nil {
		return dberr.Wrap(err, "mark_user_verified")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository constructs a PostgreSQL backed session store.
func NewSessionRepository(db *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (repository *PostgresSessionRepository) Create(ctx context.Context, session *Session) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.Table, t.ID, t.UserID, t.TokenHash, t.UserAgent, t.IPAddress, t.ExpiresAt, t.IsRevoked)

	_, err := repository.db.Exec(ctx, query,
		session.ID, session.UserID, session.TokenHash,
		session.UserAgent, session.IPAddress, session.ExpiresAt, session.IsRevoked,
	)
	if err != nil {
		return dberr.Wrap(err, "create_session")
	}
	return nil
}

func (repository *PostgresSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	t := schema.UsersSession
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()
	`,
		t.ID, t.UserID, t.TokenHash, t.UserAgent, t.IPAddress, t.ExpiresAt, t.IsRevoked, t.CreatedAt,
		t.Table, t.TokenHash, t.IsRevoked, t.ExpiresAt,
	)

	var session Session
	err := repository.db.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.UserAgent,
		&session.IPAddress, &session.ExpiresAt, &session.IsRevoked, &session.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_session_by_token_hash")
	}
	return &session, nil
}

func (repository *PostgresSessionRepository) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	t := schema.UsersSession
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
	`,
		t.ID, t.UserID, t.TokenHash, t.UserAgent, t.IPAddress, t.ExpiresAt, t.IsRevoked, t.CreatedAt,
		t.Table, t.UserID, t.CreatedAt,
	)

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_sessions")
	}
	defer rows.Close()

	sessions := make([]*Session, 0)
	for rows.Next() {
		var session Session
		err := rows.Scan(
			&session.ID, &session.UserID, &session.TokenHash, &session.UserAgent,
			&session.IPAddress, &session.ExpiresAt, &session.IsRevoked, &session.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_session")
		}
		sessions = append(sessions, &session)
	}

	return sessions, nil
}

func (repository *PostgresSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`, t.Table, t.IsRevoked, t.ID)

	if _, err := repository.db.Exec(ctx, query, sessionID); err != nil {
		return dberr.Wrap(err, "revoke_session")
	}
	return nil
}

func (repository *PostgresSessionRepository) RevokeAll(ctx context.Context, userID string) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`, t.Table, t.IsRevoked, t.UserID)

	if _, err := repository.db.Exec(ctx, query, userID); err != nil {
		return dberr.Wrap(err, "revoke_all_sessions")
	}
	return nil
}

func (repository *PostgresSessionRepository) RevokeOthers(ctx context.Context, userID, keepSessionID string) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s <> $2`,
		t.Table, t.IsRevoked, t.UserID, t.ID)

	if _, err := repository.db.Exec(ctx, query, userID, keepSessionID); err != nil {
		return dberr.Wrap(err, "revoke_other_sessions")
	}
	return nil
}
