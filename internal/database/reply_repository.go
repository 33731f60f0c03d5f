package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
)

const replyColumns = `
	r.id, r.thread_id, r.author_id, u.username AS author_username, r.parent_id,
	r.content, r.likes_count, r.created_at, r.updated_at`

// SaveReply inserts a new reply or updates an existing one's content.
func (p *PostgresDB) SaveReply(ctx context.Context, reply *models.Reply) error {
	reply.UpdatedAt = time.Now()
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = reply.UpdatedAt
	}

	query := `
		INSERT INTO replies (id, thread_id, author_id, parent_id, content, likes_count, created_at, updated_at)
		VALUES (:id, :thread_id, :author_id, :parent_id, :content, :likes_count, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := p.DB.NamedExecContext(ctx, query, reply); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save reply", err)
	}
	return nil
}

// GetReply fetches a reply by its ID.
func (p *PostgresDB) GetReply(ctx context.Context, id uuid.UUID) (*models.Reply, error) {
	query := fmt.Sprintf(`SELECT %s FROM replies r JOIN users u ON r.author_id = u.id WHERE r.id = $1`, replyColumns)
	var reply models.Reply
	err := p.DB.GetContext(ctx, &reply, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "reply not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query reply by id", err)
	}
	return &reply, nil
}

// GetThreadReplies fetches every reply of a thread in one query. Tree
// assembly happens in memory from the parent_id adjacency, so the row order
// here only needs to be stable.
func (p *PostgresDB) GetThreadReplies(ctx context.Context, threadID uuid.UUID) ([]*models.Reply, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM replies r
		JOIN users u ON r.author_id = u.id
		WHERE r.thread_id = $1
		ORDER BY r.created_at ASC, r.id ASC
	`, replyColumns)

	replies := []*models.Reply{}
	if err := p.DB.SelectContext(ctx, &replies, query, threadID); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query thread replies", err)
	}
	return replies, nil
}

// DeleteReplySubtree removes a reply and all of its descendants. The owning
// thread's counter tracks top-level replies only, so it moves by one exactly
// when the deleted root was top-level.
func (p *PostgresDB) DeleteReplySubtree(ctx context.Context, replyID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin delete transaction", err)
	}
	defer tx.Rollback()

	var root struct {
		ThreadID uuid.UUID  `db:"thread_id"`
		ParentID *uuid.UUID `db:"parent_id"`
	}
	if err := tx.GetContext(ctx, &root, `SELECT thread_id, parent_id FROM replies WHERE id = $1`, replyID); err != nil {
		if err == sql.ErrNoRows {
			return utils.NewAppError(utils.ErrNotFound, "reply not found", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to resolve reply thread", err)
	}

	_, err = tx.ExecContext(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT id FROM replies WHERE id = $1
			UNION ALL
			SELECT r.id FROM replies r JOIN subtree s ON r.parent_id = s.id
		)
		DELETE FROM replies WHERE id IN (SELECT id FROM subtree)
	`, replyID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete reply subtree", err)
	}

	if root.ParentID == nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE threads
			SET replies_count = GREATEST(replies_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`, root.ThreadID)
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to update reply counter", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit delete transaction", err)
	}
	return nil
}

// LikeReply records the (user, reply) like pair and bumps the counter.
func (p *PostgresDB) LikeReply(ctx context.Context, userID, replyID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin like transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO reply_likes (user_id, reply_id, created_at) VALUES ($1, $2, NOW())`, userID, replyID)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "reply already liked", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to insert reply like", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE replies SET likes_count = likes_count + 1, updated_at = NOW() WHERE id = $1`, replyID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update reply like counter", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "reply not found", nil)
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit like transaction", err)
	}
	return nil
}

// UnlikeReply removes the like pair and decrements the counter.
func (p *PostgresDB) UnlikeReply(ctx context.Context, userID, replyID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin unlike transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM reply_likes WHERE user_id = $1 AND reply_id = $2`, userID, replyID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete reply like", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "like not found", nil)
	}

	_, err = tx.ExecContext(ctx, `UPDATE replies SET likes_count = GREATEST(likes_count - 1, 0), updated_at = NOW() WHERE id = $1`, replyID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update reply like counter", err)
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit unlike transaction", err)
	}
	return nil
}
