package database

import (
	"context"
	"database/sql"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetFollow fetches the follow edge between two users, in either state.
func (p *PostgresDB) GetFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	query := `
		SELECT follower_id, following_id, status, created_at, updated_at
		FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`
	var follow models.Follow
	err := p.DB.GetContext(ctx, &follow, query, followerID, followingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "follow not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query follow", err)
	}
	return &follow, nil
}

// SaveFollow inserts a follow edge or updates its status. Accepting a
// pending request is a status transition on the same row.
func (p *PostgresDB) SaveFollow(ctx context.Context, follow *models.Follow) error {
	follow.UpdatedAt = time.Now()
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = follow.UpdatedAt
	}

	query := `
		INSERT INTO follows (follower_id, following_id, status, created_at, updated_at)
		VALUES (:follower_id, :following_id, :status, :created_at, :updated_at)
		ON CONFLICT (follower_id, following_id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := p.DB.NamedExecContext(ctx, query, follow); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save follow", err)
	}
	return nil
}

// DeleteFollow removes the edge. Covers unfollow, cancelled requests and
// rejected requests alike.
func (p *PostgresDB) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete follow", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "follow not found", nil)
	}
	return nil
}

// GetFollowStatuses returns the viewer's follow status toward each of the
// given users. Absent entries mean no edge exists.
func (p *PostgresDB) GetFollowStatuses(ctx context.Context, followerID uuid.UUID, followingIDs []uuid.UUID) (map[uuid.UUID]models.FollowStatus, error) {
	statuses := make(map[uuid.UUID]models.FollowStatus, len(followingIDs))
	if followerID == uuid.Nil || len(followingIDs) == 0 {
		return statuses, nil
	}

	query, args, err := sqlx.In(`SELECT following_id, status FROM follows WHERE follower_id = ? AND following_id IN (?)`, followerID, followingIDs)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to build follow statuses query", err)
	}
	query = p.DB.Rebind(query)

	rows := []struct {
		FollowingID uuid.UUID           `db:"following_id"`
		Status      models.FollowStatus `db:"status"`
	}{}
	if err := p.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query follow statuses", err)
	}

	for _, row := range rows {
		statuses[row.FollowingID] = row.Status
	}
	return statuses, nil
}
