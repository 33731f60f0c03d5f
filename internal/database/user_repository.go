package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, display_name, email, password_hash, avatar_url, is_private, is_verified, created_at, updated_at`

// GetUser fetches a user by their ID.
func (p *PostgresDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var user models.User
	err := p.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "user not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query user by id", err)
	}
	return &user, nil
}

// GetUserByEmail fetches a user by their email address.
func (p *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	var user models.User
	err := p.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "user not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query user by email", err)
	}
	return &user, nil
}

// GetUserByUsername resolves a handle case-insensitively, as mention
// resolution requires.
func (p *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(username) = LOWER($1)`, userColumns)
	var user models.User
	err := p.DB.GetContext(ctx, &user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "user not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query user by username", err)
	}
	return &user, nil
}

// GetUsersByIDs fetches a batch of users keyed by ID, for page-scoped author
// enrichment.
func (p *PostgresDB) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	result := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM users WHERE id IN (?)`, userColumns), ids)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to build users batch query", err)
	}
	query = p.DB.Rebind(query)

	users := []*models.User{}
	if err := p.DB.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query users batch", err)
	}

	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// SaveUser inserts a new user or updates the mutable profile fields.
func (p *PostgresDB) SaveUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	query := `
		INSERT INTO users (id, username, display_name, email, password_hash, avatar_url, is_private, is_verified, created_at, updated_at)
		VALUES (:id, :username, :display_name, :email, :password_hash, :avatar_url, :is_private, :is_verified, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			is_private = EXCLUDED.is_private,
			is_verified = EXCLUDED.is_verified,
			updated_at = EXCLUDED.updated_at
	`
	_, err := p.DB.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "username or email already registered", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save user", err)
	}
	return nil
}
